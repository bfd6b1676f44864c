package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"packliste/internal/format"
	"packliste/internal/ingredients"
)

// Excel writes recs to a single-sheet workbook. Amounts and package counts are
// stored as numbers so the sheet can be summed or filtered.
func Excel(title string, recs []ingredients.PurchaseRecommendation, f *format.Formatter) ([]byte, error) {
	h := headingsFor(f)

	book := excelize.NewFile()
	defer book.Close()

	sheet := h.Sheet
	if err := book.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := book.SetDocProps(&excelize.DocProperties{Title: title}); err != nil {
		return nil, fmt.Errorf("set document properties: %w", err)
	}

	columns := []string{h.Ingredient, h.Category, h.Total, h.Unit, h.Count, h.Packages, h.PerPackage}
	for i, heading := range columns {
		if err := setCell(book, sheet, i+1, 1, heading); err != nil {
			return nil, err
		}
	}

	bold, err := book.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := book.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, rec := range recs {
		row := i + 2
		values := []any{
			displayName(rec),
			rec.Category,
			rec.Total.InexactFloat64(),
			rec.Unit,
			rec.PackageCount,
			f.Pluralize(float64(rec.PackageCount), rec.PackageLabel),
			rec.AmountPerPackage.InexactFloat64(),
		}
		for c, value := range values {
			if err := setCell(book, sheet, c+1, row, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := book.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setCell(book *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := book.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("set %s: %w", cell, err)
	}
	return nil
}
