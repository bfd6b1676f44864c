package handlers

import (
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	applog "packliste/internal/log"
	"packliste/models"
)

type productRequest struct {
	Name       string `json:"name" validate:"required,max=120"`
	Unit       string `json:"unit" validate:"max=20"`
	CategoryID *uint  `json:"category_id" validate:"omitempty,gt=0"`
}

type productResponse struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Unit       string    `json:"unit"`
	CategoryID *uint     `json:"category_id,omitempty"`
	Category   string    `json:"category,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ProductResource handles CRUD interactions for products. Finished products
// and ingredients share the table; recipes link them.
func ProductResource(w http.ResponseWriter, r *http.Request) {
	if !requireDatabase(w, r) {
		return
	}

	id, rest, ok := resourcePath(r.URL.Path, "/app/api/products")
	if !ok || len(rest) > 0 {
		http.NotFound(w, r)
		return
	}

	if id == 0 {
		switch r.Method {
		case http.MethodGet:
			listProducts(w, r)
		case http.MethodPost:
			createProduct(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		showProduct(w, r, id)
	case http.MethodPut:
		updateProduct(w, r, id)
	case http.MethodDelete:
		deleteProduct(w, r, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := database.WithContext(ctx).Preload("Category").Order("name asc")

	if search := strings.TrimSpace(r.URL.Query().Get("q")); search != "" {
		query = query.Where("lower(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var results []models.Product
	if err := query.Find(&results).Error; err != nil {
		applog.Error(ctx, "failed to list products", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load products")
		return
	}

	responses := make([]productResponse, 0, len(results))
	for _, product := range results {
		responses = append(responses, projectProduct(product))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showProduct(w http.ResponseWriter, r *http.Request, id uint) {
	var product models.Product
	if err := database.WithContext(r.Context()).Preload("Category").First(&product, id).Error; err != nil {
		writeStoreError(w, r, err, "product", id)
		return
	}
	writeJSON(w, http.StatusOK, projectProduct(product))
}

func createProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload productRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	product := models.Product{
		Name:       strings.TrimSpace(payload.Name),
		Unit:       trimmedOr(payload.Unit, "Stück"),
		CategoryID: payload.CategoryID,
	}
	if err := database.WithContext(ctx).Create(&product).Error; err != nil {
		applog.Debug(ctx, "failed to create product", "error", err)
		writeJSONError(w, http.StatusConflict, "unable to create product")
		return
	}

	if err := database.WithContext(ctx).Preload("Category").First(&product, product.ID).Error; err != nil {
		writeStoreError(w, r, err, "product", product.ID)
		return
	}
	writeJSON(w, http.StatusCreated, projectProduct(product))
}

func updateProduct(w http.ResponseWriter, r *http.Request, id uint) {
	ctx := r.Context()
	var existing models.Product
	if err := database.WithContext(ctx).First(&existing, id).Error; err != nil {
		writeStoreError(w, r, err, "product", id)
		return
	}

	var payload productRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	updates := map[string]any{
		"name":        strings.TrimSpace(payload.Name),
		"unit":        trimmedOr(payload.Unit, existing.Unit),
		"category_id": payload.CategoryID,
	}
	if err := database.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		applog.Debug(ctx, "failed to update product", "error", err, "id", id)
		writeJSONError(w, http.StatusConflict, "unable to update product")
		return
	}

	if err := database.WithContext(ctx).Preload("Category").First(&existing, id).Error; err != nil {
		writeStoreError(w, r, err, "product", id)
		return
	}
	writeJSON(w, http.StatusOK, projectProduct(existing))
}

// deleteProduct refuses to remove a product still referenced by a recipe, so
// aggregation never meets a dangling ingredient created through the API. The
// row is removed for good so its unique name can be reused.
func deleteProduct(w http.ResponseWriter, r *http.Request, id uint) {
	ctx := r.Context()
	var references int64
	if err := database.WithContext(ctx).Model(&models.RecipeLine{}).
		Where("ingredient_id = ? OR product_id = ?", id, id).
		Count(&references).Error; err != nil {
		applog.Error(ctx, "failed to check product references", "error", err, "id", id)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete product")
		return
	}
	if references > 0 {
		writeJSONError(w, http.StatusConflict, "product is used in recipes")
		return
	}

	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("product_id = ?", id).Delete(&models.PackagingUnit{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Product{}, id).Error
	})
	if err != nil {
		applog.Error(ctx, "failed to delete product", "error", err, "id", id)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func projectProduct(product models.Product) productResponse {
	return productResponse{
		ID:         product.ID,
		Name:       product.Name,
		Unit:       product.Unit,
		CategoryID: product.CategoryID,
		Category:   product.CategoryName(),
		CreatedAt:  product.CreatedAt,
		UpdatedAt:  product.UpdatedAt,
	}
}
