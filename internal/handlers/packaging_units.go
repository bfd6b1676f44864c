package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	applog "packliste/internal/log"
	"packliste/models"
)

type packagingUnitRequest struct {
	ProductID        uint    `json:"product_id" validate:"required"`
	AmountPerPackage float64 `json:"amount_per_package" validate:"gt=0"`
	Label            string  `json:"packaging_label" validate:"required,max=40"`
}

type packagingUnitResponse struct {
	ID               uint    `json:"id"`
	ProductID        uint    `json:"product_id"`
	ProductName      string  `json:"product_name,omitempty"`
	AmountPerPackage float64 `json:"amount_per_package"`
	Label            string  `json:"packaging_label"`
}

// PackagingUnitResource handles CRUD interactions for packaging units. Each
// product has at most one.
func PackagingUnitResource(w http.ResponseWriter, r *http.Request) {
	if !requireDatabase(w, r) {
		return
	}

	id, rest, ok := resourcePath(r.URL.Path, "/app/api/packaging-units")
	if !ok || len(rest) > 0 {
		http.NotFound(w, r)
		return
	}

	if id == 0 {
		switch r.Method {
		case http.MethodGet:
			listPackagingUnits(w, r)
		case http.MethodPost:
			createPackagingUnit(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		showPackagingUnit(w, r, id)
	case http.MethodPut:
		updatePackagingUnit(w, r, id)
	case http.MethodDelete:
		deletePackagingUnit(w, r, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listPackagingUnits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := database.WithContext(ctx).Preload("Product").Order("product_id asc")
	if productParam := strings.TrimSpace(r.URL.Query().Get("product_id")); productParam != "" {
		if idValue, err := strconv.ParseUint(productParam, 10, 64); err == nil {
			query = query.Where("product_id = ?", uint(idValue))
		}
	}

	var results []models.PackagingUnit
	if err := query.Find(&results).Error; err != nil {
		applog.Error(ctx, "failed to list packaging units", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load packaging units")
		return
	}

	responses := make([]packagingUnitResponse, 0, len(results))
	for _, unit := range results {
		responses = append(responses, projectPackagingUnit(unit))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showPackagingUnit(w http.ResponseWriter, r *http.Request, id uint) {
	var unit models.PackagingUnit
	if err := database.WithContext(r.Context()).Preload("Product").First(&unit, id).Error; err != nil {
		writeStoreError(w, r, err, "packaging unit", id)
		return
	}
	writeJSON(w, http.StatusOK, projectPackagingUnit(unit))
}

func createPackagingUnit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload packagingUnitRequest
	if !decodeJSON(w, r, &payload) {
		return
	}
	if !packagedProductExists(w, r, payload.ProductID) {
		return
	}

	unit := models.PackagingUnit{
		ProductID:        payload.ProductID,
		AmountPerPackage: payload.AmountPerPackage,
		Label:            strings.TrimSpace(payload.Label),
	}
	if err := database.WithContext(ctx).Create(&unit).Error; err != nil {
		applog.Debug(ctx, "failed to create packaging unit", "error", err)
		writeJSONError(w, http.StatusConflict, "product already has a packaging unit")
		return
	}

	if err := database.WithContext(ctx).Preload("Product").First(&unit, unit.ID).Error; err != nil {
		writeStoreError(w, r, err, "packaging unit", unit.ID)
		return
	}
	writeJSON(w, http.StatusCreated, projectPackagingUnit(unit))
}

func updatePackagingUnit(w http.ResponseWriter, r *http.Request, id uint) {
	ctx := r.Context()
	var existing models.PackagingUnit
	if err := database.WithContext(ctx).First(&existing, id).Error; err != nil {
		writeStoreError(w, r, err, "packaging unit", id)
		return
	}

	var payload packagingUnitRequest
	if !decodeJSON(w, r, &payload) {
		return
	}
	if !packagedProductExists(w, r, payload.ProductID) {
		return
	}

	updates := map[string]any{
		"product_id":         payload.ProductID,
		"amount_per_package": payload.AmountPerPackage,
		"label":              strings.TrimSpace(payload.Label),
	}
	if err := database.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		applog.Debug(ctx, "failed to update packaging unit", "error", err, "id", id)
		writeJSONError(w, http.StatusConflict, "unable to update packaging unit")
		return
	}

	if err := database.WithContext(ctx).Preload("Product").First(&existing, id).Error; err != nil {
		writeStoreError(w, r, err, "packaging unit", id)
		return
	}
	writeJSON(w, http.StatusOK, projectPackagingUnit(existing))
}

func deletePackagingUnit(w http.ResponseWriter, r *http.Request, id uint) {
	if err := database.WithContext(r.Context()).Unscoped().Delete(&models.PackagingUnit{}, id).Error; err != nil {
		applog.Error(r.Context(), "failed to delete packaging unit", "error", err, "id", id)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete packaging unit")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func packagedProductExists(w http.ResponseWriter, r *http.Request, productID uint) bool {
	var product models.Product
	if err := database.WithContext(r.Context()).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusUnprocessableEntity, "product_id does not exist")
			return false
		}
		writeStoreError(w, r, err, "product", productID)
		return false
	}
	return true
}

func projectPackagingUnit(unit models.PackagingUnit) packagingUnitResponse {
	response := packagingUnitResponse{
		ID:               unit.ID,
		ProductID:        unit.ProductID,
		AmountPerPackage: unit.AmountPerPackage,
		Label:            unit.Label,
	}
	if unit.Product != nil {
		response.ProductName = unit.Product.Name
	}
	return response
}
