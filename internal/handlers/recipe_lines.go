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

type recipeLineRequest struct {
	ProductID    uint    `json:"product_id" validate:"required"`
	IngredientID uint    `json:"ingredient_id" validate:"required,nefield=ProductID"`
	Amount       float64 `json:"amount" validate:"gt=0"`
	Unit         string  `json:"unit" validate:"max=20"`
}

type recipeLineResponse struct {
	ID             uint    `json:"id"`
	ProductID      uint    `json:"product_id"`
	ProductName    string  `json:"product_name,omitempty"`
	IngredientID   uint    `json:"ingredient_id"`
	IngredientName string  `json:"ingredient_name,omitempty"`
	Amount         float64 `json:"amount"`
	AmountText     string  `json:"amount_text"`
	Unit           string  `json:"unit"`
}

// RecipeLineResource handles CRUD interactions for recipe lines.
func RecipeLineResource(w http.ResponseWriter, r *http.Request) {
	if !requireDatabase(w, r) {
		return
	}

	id, rest, ok := resourcePath(r.URL.Path, "/app/api/recipe-lines")
	if !ok || len(rest) > 0 {
		http.NotFound(w, r)
		return
	}

	if id == 0 {
		switch r.Method {
		case http.MethodGet:
			listRecipeLines(w, r)
		case http.MethodPost:
			createRecipeLine(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		showRecipeLine(w, r, id)
	case http.MethodPut:
		updateRecipeLine(w, r, id)
	case http.MethodDelete:
		deleteRecipeLine(w, r, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listRecipeLines(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := database.WithContext(ctx).
		Preload("Product").
		Preload("Ingredient").
		Order("product_id asc, id asc")

	if productParam := strings.TrimSpace(r.URL.Query().Get("product_id")); productParam != "" {
		if idValue, err := strconv.ParseUint(productParam, 10, 64); err == nil {
			query = query.Where("product_id = ?", uint(idValue))
		}
	}

	var results []models.RecipeLine
	if err := query.Find(&results).Error; err != nil {
		applog.Error(ctx, "failed to list recipe lines", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load recipe lines")
		return
	}

	responses := make([]recipeLineResponse, 0, len(results))
	for _, line := range results {
		responses = append(responses, projectRecipeLine(line))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showRecipeLine(w http.ResponseWriter, r *http.Request, id uint) {
	var line models.RecipeLine
	if err := database.WithContext(r.Context()).Preload("Product").Preload("Ingredient").First(&line, id).Error; err != nil {
		writeStoreError(w, r, err, "recipe line", id)
		return
	}
	writeJSON(w, http.StatusOK, projectRecipeLine(line))
}

func createRecipeLine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload recipeLineRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	ingredient, ok := loadRecipeParticipants(w, r, payload)
	if !ok {
		return
	}

	line := models.RecipeLine{
		ProductID:    payload.ProductID,
		IngredientID: payload.IngredientID,
		Amount:       payload.Amount,
		Unit:         trimmedOr(payload.Unit, ingredient.Unit),
	}
	if err := database.WithContext(ctx).Create(&line).Error; err != nil {
		applog.Error(ctx, "failed to create recipe line", "error", err)
		writeJSONError(w, http.StatusBadRequest, "unable to create recipe line")
		return
	}

	if err := database.WithContext(ctx).Preload("Product").Preload("Ingredient").First(&line, line.ID).Error; err != nil {
		writeStoreError(w, r, err, "recipe line", line.ID)
		return
	}
	writeJSON(w, http.StatusCreated, projectRecipeLine(line))
}

func updateRecipeLine(w http.ResponseWriter, r *http.Request, id uint) {
	ctx := r.Context()
	var existing models.RecipeLine
	if err := database.WithContext(ctx).First(&existing, id).Error; err != nil {
		writeStoreError(w, r, err, "recipe line", id)
		return
	}

	var payload recipeLineRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	ingredient, ok := loadRecipeParticipants(w, r, payload)
	if !ok {
		return
	}

	updates := map[string]any{
		"product_id":    payload.ProductID,
		"ingredient_id": payload.IngredientID,
		"amount":        payload.Amount,
		"unit":          trimmedOr(payload.Unit, ingredient.Unit),
	}
	if err := database.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		applog.Error(ctx, "failed to update recipe line", "error", err, "id", id)
		writeJSONError(w, http.StatusBadRequest, "unable to update recipe line")
		return
	}

	if err := database.WithContext(ctx).Preload("Product").Preload("Ingredient").First(&existing, id).Error; err != nil {
		writeStoreError(w, r, err, "recipe line", id)
		return
	}
	writeJSON(w, http.StatusOK, projectRecipeLine(existing))
}

func deleteRecipeLine(w http.ResponseWriter, r *http.Request, id uint) {
	if err := database.WithContext(r.Context()).Delete(&models.RecipeLine{}, id).Error; err != nil {
		applog.Error(r.Context(), "failed to delete recipe line", "error", err, "id", id)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete recipe line")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadRecipeParticipants checks that both ends of a recipe line exist and
// returns the ingredient.
func loadRecipeParticipants(w http.ResponseWriter, r *http.Request, payload recipeLineRequest) (models.Product, bool) {
	ctx := r.Context()
	var product, ingredient models.Product
	if err := database.WithContext(ctx).First(&product, payload.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusUnprocessableEntity, "product_id does not exist")
			return ingredient, false
		}
		writeStoreError(w, r, err, "product", payload.ProductID)
		return ingredient, false
	}
	if err := database.WithContext(ctx).First(&ingredient, payload.IngredientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusUnprocessableEntity, "ingredient_id does not exist")
			return ingredient, false
		}
		writeStoreError(w, r, err, "product", payload.IngredientID)
		return ingredient, false
	}
	return ingredient, true
}

func projectRecipeLine(line models.RecipeLine) recipeLineResponse {
	response := recipeLineResponse{
		ID:           line.ID,
		ProductID:    line.ProductID,
		IngredientID: line.IngredientID,
		Amount:       line.Amount,
		AmountText:   formatter.FormatAmount(line.Amount, line.Unit),
		Unit:         line.Unit,
	}
	if line.Product != nil {
		response.ProductName = line.Product.Name
	}
	if line.Ingredient != nil {
		response.IngredientName = line.Ingredient.Name
	}
	return response
}
