package ingredients

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// memCatalog is an in-memory Catalog used by the package tests.
type memCatalog struct {
	mu        sync.Mutex
	products  map[uint]Product
	recipes   map[uint][]RecipeLine
	packaging map[uint]*Packaging
	failOn    map[uint]error
	calls     int
}

func newMemCatalog() *memCatalog {
	return &memCatalog{
		products:  make(map[uint]Product),
		recipes:   make(map[uint][]RecipeLine),
		packaging: make(map[uint]*Packaging),
		failOn:    make(map[uint]error),
	}
}

func (c *memCatalog) addProduct(id uint, name, unit string) {
	c.products[id] = Product{ID: id, Name: name, Unit: unit}
}

func (c *memCatalog) addLine(productID, ingredientID uint, name, unit string, amount float64) {
	c.recipes[productID] = append(c.recipes[productID], RecipeLine{
		IngredientID:   ingredientID,
		IngredientName: name,
		Unit:           unit,
		Amount:         decimal.NewFromFloat(amount),
	})
}

func (c *memCatalog) addPackaging(productID uint, amount float64, label string) {
	c.packaging[productID] = &Packaging{AmountPerPackage: decimal.NewFromFloat(amount), Label: label}
}

func (c *memCatalog) Product(ctx context.Context, productID uint) (Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if err := ctx.Err(); err != nil {
		return Product{}, err
	}
	if err, ok := c.failOn[productID]; ok {
		return Product{}, err
	}
	product, ok := c.products[productID]
	if !ok {
		return Product{}, fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}
	return product, nil
}

func (c *memCatalog) RecipeLines(ctx context.Context, productID uint) ([]RecipeLine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]RecipeLine(nil), c.recipes[productID]...), nil
}

func (c *memCatalog) Packaging(ctx context.Context, productID uint) (*Packaging, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := c.failOn[productID]; ok {
		return nil, err
	}
	return c.packaging[productID], nil
}

// burgerCatalog builds the Burger/Wrap catalogue used across tests.
func burgerCatalog() *memCatalog {
	c := newMemCatalog()
	c.addProduct(1, "Burger", "Stück")
	c.addProduct(2, "Wrap", "Stück")
	c.addProduct(3, "Bonrolle", "Stück")
	c.addProduct(10, "Bun", "Stück")
	c.addProduct(11, "Patty", "g")
	c.addLine(1, 10, "Bun", "Stück", 1)
	c.addLine(1, 11, "Patty", "g", 150)
	c.addLine(2, 10, "Bun", "Stück", 1)
	c.addPackaging(10, 20, "Sack")
	c.addPackaging(11, 1000, "Packung")
	return c
}

func qty(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}
