// Package catalog exposes the gorm-backed product catalogue to the
// aggregation core.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"packliste/internal/ingredients"
	"packliste/models"
)

// Store implements ingredients.Catalog on top of the application database.
type Store struct {
	db *gorm.DB
}

var _ ingredients.Catalog = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Product returns the catalogue entry for id.
func (s *Store) Product(ctx context.Context, id uint) (ingredients.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Preload("Category").First(&product, id).Error; err != nil {
		return ingredients.Product{}, wrap(err, "product %d", id)
	}
	return ingredients.Product{
		ID:       product.ID,
		Name:     product.Name,
		Unit:     product.Unit,
		Category: product.CategoryName(),
	}, nil
}

// RecipeLines returns the recipe of a finished product ordered by insertion.
// A line pointing at a deleted ingredient is reported as not found.
func (s *Store) RecipeLines(ctx context.Context, productID uint) ([]ingredients.RecipeLine, error) {
	var rows []models.RecipeLine
	err := s.db.WithContext(ctx).
		Preload("Ingredient.Category").
		Where("product_id = ?", productID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, wrap(err, "recipe of product %d", productID)
	}

	lines := make([]ingredients.RecipeLine, 0, len(rows))
	for _, row := range rows {
		if row.Ingredient == nil {
			return nil, fmt.Errorf("ingredient %d of product %d: %w", row.IngredientID, productID, ingredients.ErrNotFound)
		}
		lines = append(lines, ingredients.RecipeLine{
			IngredientID:       row.IngredientID,
			IngredientName:     row.Ingredient.Name,
			IngredientCategory: row.Ingredient.CategoryName(),
			Unit:               row.Unit,
			Amount:             decimal.NewFromFloat(row.Amount),
		})
	}
	return lines, nil
}

// Packaging returns nil, nil when no packaging row exists for the product.
func (s *Store) Packaging(ctx context.Context, productID uint) (*ingredients.Packaging, error) {
	var rows []models.PackagingUnit
	err := s.db.WithContext(ctx).Where("product_id = ?", productID).Limit(1).Find(&rows).Error
	if err != nil {
		return nil, wrap(err, "packaging of product %d", productID)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &ingredients.Packaging{
		AmountPerPackage: decimal.NewFromFloat(rows[0].AmountPerPackage),
		Label:            rows[0].Label,
	}, nil
}

// EventSelections builds the selections stored on an event's Packliste.
func (s *Store) EventSelections(ctx context.Context, eventID uint) ([]ingredients.Selection, error) {
	var event models.Event
	err := s.db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Products.Product").
		First(&event, eventID).Error
	if err != nil {
		return nil, wrap(err, "event %d", eventID)
	}

	selections := make([]ingredients.Selection, 0, len(event.Products))
	for _, item := range event.Products {
		selections = append(selections, selection(item.ProductID, item.Product, item.Quantity, item.Unit))
	}
	return selections, nil
}

// OrderSelections builds selections from the items of a stored order.
func (s *Store) OrderSelections(ctx context.Context, orderID uint) ([]ingredients.Selection, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Product").
		First(&order, orderID).Error
	if err != nil {
		return nil, wrap(err, "order %d", orderID)
	}

	selections := make([]ingredients.Selection, 0, len(order.Items))
	for _, item := range order.Items {
		selections = append(selections, selection(item.ProductID, item.Product, item.Quantity, item.Unit))
	}
	return selections, nil
}

func selection(productID uint, product *models.Product, quantity float64, unit string) ingredients.Selection {
	sel := ingredients.Selection{
		ProductID: productID,
		Quantity:  decimal.NewFromFloat(quantity),
		Unit:      unit,
	}
	if product != nil {
		sel.ProductName = product.Name
		if sel.Unit == "" {
			sel.Unit = product.Unit
		}
	}
	return sel
}

func wrap(err error, format string, args ...any) error {
	subject := fmt.Sprintf(format, args...)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", subject, ingredients.ErrNotFound)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", subject, err)
	}
	return fmt.Errorf("%s: %w: %w", subject, ingredients.ErrCollaboratorUnavailable, err)
}
