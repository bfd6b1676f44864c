package ingredients

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ceilingPrecision is the number of decimal places kept before rounding up, so
// that an exact multiple carrying float noise does not cost an extra package.
const ceilingPrecision = 9

// Project converts an aggregated line into a whole-package recommendation.
// Without packaging the base unit acts as a package of one.
func Project(line Line, packaging *Packaging) (PurchaseRecommendation, error) {
	rec := PurchaseRecommendation{
		IngredientID:   line.IngredientID,
		IngredientName: line.IngredientName,
		DisplayName:    line.IngredientName,
		Category:       line.Category,
		Unit:           line.Unit,
		Total:          line.Total,
		Contributions:  line.Contributions,
	}

	if packaging == nil {
		rec.PackageCount = tolerantCeil(line.Total)
		rec.PackageLabel = strings.TrimSpace(line.Unit)
		rec.AmountPerPackage = decimal.NewFromInt(1)
		return rec, nil
	}

	if !packaging.AmountPerPackage.IsPositive() {
		return PurchaseRecommendation{}, &Error{
			Kind:         ErrInvalidPackaging,
			IngredientID: line.IngredientID,
			Name:         line.IngredientName,
		}
	}

	rec.HasPackaging = true
	rec.AmountPerPackage = packaging.AmountPerPackage
	rec.PackageLabel = firstNonEmpty(strings.TrimSpace(packaging.Label), strings.TrimSpace(line.Unit))
	rec.PackageCount = tolerantCeil(line.Total.DivRound(packaging.AmountPerPackage, 16))
	return rec, nil
}

func tolerantCeil(value decimal.Decimal) int64 {
	count := value.Round(ceilingPrecision).Ceil().IntPart()
	if count < 0 {
		return 0
	}
	return count
}
