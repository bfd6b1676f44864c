package handlers

import (
	"net/http"
	"strings"

	applog "packliste/internal/log"
	"packliste/models"
)

type categoryRequest struct {
	Name string `json:"name" validate:"required,max=80"`
}

type categoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// CategoryResource handles CRUD interactions for product categories.
func CategoryResource(w http.ResponseWriter, r *http.Request) {
	if !requireDatabase(w, r) {
		return
	}

	id, rest, ok := resourcePath(r.URL.Path, "/app/api/categories")
	if !ok || len(rest) > 0 {
		http.NotFound(w, r)
		return
	}

	if id == 0 {
		switch r.Method {
		case http.MethodGet:
			listCategories(w, r)
		case http.MethodPost:
			createCategory(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	switch r.Method {
	case http.MethodPut:
		updateCategory(w, r, id)
	case http.MethodDelete:
		deleteCategory(w, r, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listCategories(w http.ResponseWriter, r *http.Request) {
	var results []models.Category
	if err := database.WithContext(r.Context()).Order("name asc").Find(&results).Error; err != nil {
		applog.Error(r.Context(), "failed to list categories", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load categories")
		return
	}

	responses := make([]categoryResponse, 0, len(results))
	for _, category := range results {
		responses = append(responses, categoryResponse{ID: category.ID, Name: category.Name})
	}
	writeJSON(w, http.StatusOK, responses)
}

func createCategory(w http.ResponseWriter, r *http.Request) {
	var payload categoryRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	category := models.Category{Name: strings.TrimSpace(payload.Name)}
	if err := database.WithContext(r.Context()).Create(&category).Error; err != nil {
		applog.Debug(r.Context(), "failed to create category", "error", err)
		writeJSONError(w, http.StatusConflict, "unable to create category")
		return
	}
	writeJSON(w, http.StatusCreated, categoryResponse{ID: category.ID, Name: category.Name})
}

func updateCategory(w http.ResponseWriter, r *http.Request, id uint) {
	var existing models.Category
	if err := database.WithContext(r.Context()).First(&existing, id).Error; err != nil {
		writeStoreError(w, r, err, "category", id)
		return
	}

	var payload categoryRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	name := strings.TrimSpace(payload.Name)
	if err := database.WithContext(r.Context()).Model(&existing).Update("name", name).Error; err != nil {
		applog.Debug(r.Context(), "failed to update category", "error", err, "id", id)
		writeJSONError(w, http.StatusConflict, "unable to update category")
		return
	}
	writeJSON(w, http.StatusOK, categoryResponse{ID: existing.ID, Name: name})
}

func deleteCategory(w http.ResponseWriter, r *http.Request, id uint) {
	ctx := r.Context()
	if err := database.WithContext(ctx).Model(&models.Product{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
		applog.Error(ctx, "failed to detach products from category", "error", err, "id", id)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete category")
		return
	}
	if err := database.WithContext(ctx).Unscoped().Delete(&models.Category{}, id).Error; err != nil {
		applog.Error(ctx, "failed to delete category", "error", err, "id", id)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
