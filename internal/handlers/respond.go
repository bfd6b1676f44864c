package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"packliste/internal/ingredients"
	applog "packliste/internal/log"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type errorResponse struct {
	Error        string            `json:"error"`
	Fields       map[string]string `json:"fields,omitempty"`
	ProductID    uint              `json:"product_id,omitempty"`
	IngredientID uint              `json:"ingredient_id,omitempty"`
	Units        []string          `json:"units,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// decodeJSON reads the request body into dst and validates it. On failure the
// error response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		applog.Debug(r.Context(), "invalid request payload", "path", r.URL.Path, "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			fields := make(map[string]string, len(fieldErrs))
			for _, fe := range fieldErrs {
				fields[fe.Namespace()[strings.Index(fe.Namespace(), ".")+1:]] = fe.Tag()
			}
			applog.Debug(r.Context(), "request validation failed", "path", r.URL.Path, "fields", fields)
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Fields: fields})
			return false
		}
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// writeAggregationError maps the aggregation error taxonomy onto HTTP statuses.
func writeAggregationError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	resp := errorResponse{Error: err.Error()}
	var typed *ingredients.Error
	if errors.As(err, &typed) {
		resp.ProductID = typed.ProductID
		resp.IngredientID = typed.IngredientID
		resp.Units = typed.Units
	}

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		applog.Warn(ctx, "aggregation abandoned", "error", err)
		writeJSONError(w, http.StatusServiceUnavailable, "request cancelled")
	case errors.Is(err, ingredients.ErrNotFound):
		writeJSON(w, http.StatusNotFound, resp)
	case errors.Is(err, ingredients.ErrUnitMismatch),
		errors.Is(err, ingredients.ErrInvalidPackaging),
		errors.Is(err, ingredients.ErrInvalidQuantity):
		applog.Info(ctx, "aggregation rejected", "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	case errors.Is(err, ingredients.ErrCollaboratorUnavailable):
		applog.Error(ctx, "catalog unavailable during aggregation", "error", err)
		writeJSONError(w, http.StatusServiceUnavailable, "catalog unavailable")
	default:
		applog.Error(ctx, "aggregation failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to compute ingredients")
	}
}

// writeStoreError answers a failed single-record lookup.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, what string, id uint) {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ingredients.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, fmt.Sprintf("%s %d not found", what, id))
		return
	}
	applog.Error(r.Context(), "failed to load "+what, "error", err, "id", id)
	writeJSONError(w, http.StatusInternalServerError, "unable to load "+what)
}

// resourcePath splits the path below prefix into an optional numeric id and
// the remaining segments. ok is false when the id segment is not a number.
func resourcePath(path, prefix string) (id uint, rest []string, ok bool) {
	trimmed := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if trimmed == "" {
		return 0, nil, true
	}
	segments := strings.Split(trimmed, "/")
	value, err := strconv.ParseUint(segments[0], 10, 64)
	if err != nil || value == 0 {
		return 0, nil, false
	}
	return uint(value), segments[1:], true
}

func requireDatabase(w http.ResponseWriter, r *http.Request) bool {
	if database == nil {
		applog.Debug(r.Context(), "request without database", "path", r.URL.Path)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return false
	}
	return true
}

func trimmedOr(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
