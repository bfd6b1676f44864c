package ingredients

import (
	"context"

	"github.com/shopspring/decimal"

	applog "packliste/internal/log"
)

// Resolver expands a finished product into its scaled ingredient lines.
// Ingredients are not expanded further even when they have recipes of their own.
type Resolver struct {
	catalog Catalog
}

func NewResolver(catalog Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve returns every recipe line of productID multiplied by quantity.
// Lines with a non-positive amount are passed through unchanged so callers
// can see malformed recipe data.
func (r *Resolver) Resolve(ctx context.Context, productID uint, quantity decimal.Decimal) ([]ScaledLine, error) {
	if quantity.IsNegative() {
		return nil, &Error{Kind: ErrInvalidQuantity, ProductID: productID}
	}

	product, err := r.catalog.Product(ctx, productID)
	if err != nil {
		return nil, classify(err, productID, 0)
	}

	if quantity.IsZero() {
		return []ScaledLine{}, nil
	}

	lines, err := r.catalog.RecipeLines(ctx, productID)
	if err != nil {
		return nil, classify(err, productID, 0)
	}

	applog.Debug(ctx, "resolved recipe", "productID", productID, "lines", len(lines), "quantity", quantity.String())

	scaled := make([]ScaledLine, 0, len(lines))
	for _, line := range lines {
		scaled = append(scaled, ScaledLine{
			IngredientID:       line.IngredientID,
			IngredientName:     line.IngredientName,
			IngredientCategory: line.IngredientCategory,
			Unit:               line.Unit,
			Amount:             line.Amount.Mul(quantity),
			SourceProductID:    productID,
			SourceProductName:  product.Name,
			SourceQuantity:     quantity,
		})
	}
	return scaled, nil
}
