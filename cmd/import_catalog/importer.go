package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	applog "packliste/internal/log"
	"packliste/models"
)

// importFile applies fn to every data row, each inside its own transaction.
// The first failing row aborts the import; rows before it stay committed.
func importFile(ctx context.Context, database *gorm.DB, path string, fn rowImporter) (int, error) {
	if strings.TrimSpace(path) == "" {
		return 0, errors.New("csv path must not be empty")
	}

	records, err := readCSV(path)
	if err != nil {
		return 0, fmt.Errorf("read csv: %w", err)
	}

	imported := 0
	for _, record := range records {
		if err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(ctx, tx, record.values)
		}); err != nil {
			return imported, fmt.Errorf("row %d: %w", record.line, err)
		}
		imported++
	}

	applog.Debug(ctx, "csv import finished", "path", path, "rows", imported)
	return imported, nil
}

// csvRecord is one data row keyed by lower-cased header. line is the
// physical line in the file, so blank lines still count.
type csvRecord struct {
	line   int
	values map[string]string
}

func readCSV(path string) ([]csvRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	first, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("csv is empty")
	}
	if err != nil {
		return nil, err
	}
	header := make([]string, len(first))
	for i, key := range first {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(key, "\ufeff")))
	}

	var records []csvRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		line, _ := reader.FieldPos(0)
		values := make(map[string]string, len(header))
		for i, key := range header {
			if i < len(row) {
				values[key] = strings.TrimSpace(row[i])
			}
		}
		records = append(records, csvRecord{line: line, values: values})
	}
	return records, nil
}

func importProducts(_ context.Context, tx *gorm.DB, row map[string]string) error {
	name := row["name"]
	if name == "" {
		return errors.New("name is required")
	}
	unit := row["unit"]
	if unit == "" {
		unit = "Stück"
	}

	var categoryID *uint
	if categoryName := row["category"]; categoryName != "" {
		category := models.Category{Name: categoryName}
		if err := tx.Unscoped().Where(models.Category{Name: categoryName}).FirstOrCreate(&category).Error; err != nil {
			return fmt.Errorf("upsert category %q: %w", categoryName, err)
		}
		if category.DeletedAt.Valid {
			if err := tx.Unscoped().Model(&category).Update("deleted_at", nil).Error; err != nil {
				return fmt.Errorf("restore category %q: %w", categoryName, err)
			}
		}
		categoryID = &category.ID
	}

	// Soft-deleted rows still hold the unique name; they are restored.
	var product models.Product
	err := tx.Unscoped().Where("name = ?", name).First(&product).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		product = models.Product{Name: name, Unit: unit, CategoryID: categoryID}
		if err := tx.Create(&product).Error; err != nil {
			return fmt.Errorf("create product %q: %w", name, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("find product %q: %w", name, err)
	}

	updates := map[string]any{"unit": unit, "category_id": categoryID, "deleted_at": nil}
	if err := tx.Unscoped().Model(&product).Updates(updates).Error; err != nil {
		return fmt.Errorf("update product %q: %w", name, err)
	}
	return nil
}

func importRecipes(_ context.Context, tx *gorm.DB, row map[string]string) error {
	product, err := productByName(tx, row["product"])
	if err != nil {
		return err
	}
	ingredient, err := productByName(tx, row["ingredient"])
	if err != nil {
		return err
	}
	if product.ID == ingredient.ID {
		return fmt.Errorf("product %q cannot be its own ingredient", product.Name)
	}
	amount, err := parseAmount(row["amount"])
	if err != nil {
		return err
	}
	unit := row["unit"]
	if unit == "" {
		unit = ingredient.Unit
	}

	var line models.RecipeLine
	err = tx.Where("product_id = ? AND ingredient_id = ?", product.ID, ingredient.ID).First(&line).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		line = models.RecipeLine{ProductID: product.ID, IngredientID: ingredient.ID, Amount: amount, Unit: unit}
		if err := tx.Create(&line).Error; err != nil {
			return fmt.Errorf("create recipe line %q → %q: %w", product.Name, ingredient.Name, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("find recipe line %q → %q: %w", product.Name, ingredient.Name, err)
	}

	if err := tx.Model(&line).Updates(map[string]any{"amount": amount, "unit": unit}).Error; err != nil {
		return fmt.Errorf("update recipe line %q → %q: %w", product.Name, ingredient.Name, err)
	}
	return nil
}

func importPackaging(_ context.Context, tx *gorm.DB, row map[string]string) error {
	product, err := productByName(tx, row["product"])
	if err != nil {
		return err
	}
	amount, err := parseAmount(row["amount_per_package"])
	if err != nil {
		return err
	}
	label := row["label"]
	if label == "" {
		return errors.New("label is required")
	}

	var packaging models.PackagingUnit
	err = tx.Unscoped().Where("product_id = ?", product.ID).First(&packaging).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		packaging = models.PackagingUnit{ProductID: product.ID, AmountPerPackage: amount, Label: label}
		if err := tx.Create(&packaging).Error; err != nil {
			return fmt.Errorf("create packaging for %q: %w", product.Name, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("find packaging for %q: %w", product.Name, err)
	}

	updates := map[string]any{"amount_per_package": amount, "label": label, "deleted_at": nil}
	if err := tx.Unscoped().Model(&packaging).Updates(updates).Error; err != nil {
		return fmt.Errorf("update packaging for %q: %w", product.Name, err)
	}
	return nil
}

func productByName(tx *gorm.DB, name string) (models.Product, error) {
	var product models.Product
	if name == "" {
		return product, errors.New("product name is required")
	}
	if err := tx.Where("name = ?", name).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return product, fmt.Errorf("unknown product %q", name)
		}
		return product, fmt.Errorf("find product %q: %w", name, err)
	}
	return product, nil
}

// parseAmount accepts both "2.5" and the German "2,5".
func parseAmount(raw string) (float64, error) {
	value := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if value == "" {
		return 0, errors.New("amount is required")
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("amount %q must be positive", raw)
	}
	return d.InexactFloat64(), nil
}
