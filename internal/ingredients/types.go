// Package ingredients turns selections of finished products into ingredient
// totals and whole-package purchase recommendations.
package ingredients

import (
	"context"

	"github.com/shopspring/decimal"
)

// Catalog is the storage collaborator consulted during aggregation.
// Implementations return errors wrapping ErrNotFound for missing records;
// any other error is treated as the catalogue being unavailable.
type Catalog interface {
	Product(ctx context.Context, productID uint) (Product, error)
	RecipeLines(ctx context.Context, productID uint) ([]RecipeLine, error)
	// Packaging returns nil without error when the product has no packaging row.
	Packaging(ctx context.Context, productID uint) (*Packaging, error)
}

type Product struct {
	ID       uint
	Name     string
	Unit     string
	Category string
}

// RecipeLine is the amount of one ingredient needed per unit of a finished product.
type RecipeLine struct {
	IngredientID       uint
	IngredientName     string
	IngredientCategory string
	Unit               string
	Amount             decimal.Decimal
}

type Packaging struct {
	AmountPerPackage decimal.Decimal
	Label            string
}

// Selection requests Quantity units of a finished product.
type Selection struct {
	ProductID   uint
	ProductName string
	Quantity    decimal.Decimal
	Unit        string
}

// ScaledLine is a recipe line multiplied by the requested product quantity.
type ScaledLine struct {
	IngredientID       uint
	IngredientName     string
	IngredientCategory string
	Unit               string
	Amount             decimal.Decimal
	SourceProductID    uint
	SourceProductName  string
	SourceQuantity     decimal.Decimal
}

type Contribution struct {
	ProductID       uint            `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ProductQuantity decimal.Decimal `json:"product_quantity"`
}

// Line is the merged requirement for one ingredient across all selections.
type Line struct {
	IngredientID   uint
	IngredientName string
	Category       string
	Unit           string
	Total          decimal.Decimal
	Contributions  []Contribution
}

// PurchaseRecommendation is a Line converted into whole packages.
type PurchaseRecommendation struct {
	IngredientID     uint            `json:"ingredient_id"`
	IngredientName   string          `json:"ingredient_name"`
	DisplayName      string          `json:"display_name"`
	Category         string          `json:"category,omitempty"`
	Unit             string          `json:"unit"`
	Total            decimal.Decimal `json:"total_amount"`
	PackageCount     int64           `json:"package_count"`
	PackageLabel     string          `json:"package_label"`
	AmountPerPackage decimal.Decimal `json:"amount_per_package"`
	HasPackaging     bool            `json:"has_packaging"`
	Contributions    []Contribution  `json:"contributions"`
}
