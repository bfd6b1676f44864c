package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"packliste/internal/ingredients"
	applog "packliste/internal/log"
)

type selectionRequest struct {
	ProductID uint            `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit" validate:"max=20"`
}

type shoppingListRequest struct {
	Title      string             `json:"title" validate:"max=120"`
	Selections []selectionRequest `json:"selections" validate:"dive"`
}

type recommendationResponse struct {
	ingredients.PurchaseRecommendation
	AmountText     string `json:"amount_text"`
	PackagesText   string `json:"packages_text"`
	SuggestedLabel string `json:"suggested_label,omitempty"`
}

type ingredientListResponse struct {
	Title       string                   `json:"title,omitempty"`
	Ingredients []recommendationResponse `json:"ingredients"`
}

// ShoppingList aggregates an ad-hoc selection (Einkaufen) into purchase
// recommendations. ?category= narrows the output to one ingredient category.
func ShoppingList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if service == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	var payload shoppingListRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	selections := make([]ingredients.Selection, 0, len(payload.Selections))
	for i, sel := range payload.Selections {
		if sel.Quantity.IsNegative() {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error:  "validation failed",
				Fields: map[string]string{fmt.Sprintf("selections[%d].quantity", i): "gte"},
			})
			return
		}
		selections = append(selections, ingredients.Selection{
			ProductID: sel.ProductID,
			Quantity:  sel.Quantity,
			Unit:      strings.TrimSpace(sel.Unit),
		})
	}

	recs, err := service.AggregateAndProject(r.Context(), selections)
	if err != nil {
		writeAggregationError(w, r, err)
		return
	}
	recs = filterByCategory(recs, r.URL.Query().Get("category"))

	applog.Debug(r.Context(), "shopping list computed", "selections", len(selections), "ingredients", len(recs))
	writeJSON(w, http.StatusOK, ingredientListResponse{
		Title:       trimmedOr(payload.Title, "Einkaufsliste"),
		Ingredients: projectRecommendations(recs, false),
	})
}

func filterByCategory(recs []ingredients.PurchaseRecommendation, category string) []ingredients.PurchaseRecommendation {
	category = strings.TrimSpace(category)
	if category == "" {
		return recs
	}
	filtered := make([]ingredients.PurchaseRecommendation, 0, len(recs))
	for _, rec := range recs {
		if strings.EqualFold(rec.Category, category) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// projectRecommendations adds display text. With suggest set, ingredients
// lacking a packaging row get a guessed container label.
func projectRecommendations(recs []ingredients.PurchaseRecommendation, suggest bool) []recommendationResponse {
	responses := make([]recommendationResponse, 0, len(recs))
	for _, rec := range recs {
		response := recommendationResponse{
			PurchaseRecommendation: rec,
			AmountText:             formatter.FormatDecimal(rec.Total, rec.Unit),
			PackagesText:           formatter.FormatPackages(rec.PackageCount, rec.PackageLabel),
		}
		if suggest && !rec.HasPackaging {
			if label, ok := ingredients.GuessPackaging(rec.IngredientName); ok {
				response.SuggestedLabel = label
			}
		}
		responses = append(responses, response)
	}
	return responses
}

func attachmentName(prefix string, id uint, ext string) string {
	return fmt.Sprintf("attachment; filename=%s-%d.%s", prefix, id, ext)
}
