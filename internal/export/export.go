// Package export renders purchase recommendations as downloadable documents.
// Renderers only lay out what they are given; they never aggregate.
package export

import (
	"packliste/internal/format"
	"packliste/internal/ingredients"
)

const (
	ContentTypePDF   = "application/pdf"
	ContentTypeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type headings struct {
	Ingredient string
	Category   string
	Total      string
	Unit       string
	Packages   string
	Count      string
	PerPackage string
	Empty      string
	Sheet      string
}

var germanHeadings = headings{
	Ingredient: "Zutat",
	Category:   "Kategorie",
	Total:      "Menge",
	Unit:       "Einheit",
	Packages:   "Gebinde",
	Count:      "Anzahl",
	PerPackage: "Inhalt je Gebinde",
	Empty:      "Keine Zutaten ausgewählt.",
	Sheet:      "Einkaufsliste",
}

var englishHeadings = headings{
	Ingredient: "Ingredient",
	Category:   "Category",
	Total:      "Amount",
	Unit:       "Unit",
	Packages:   "Packages",
	Count:      "Count",
	PerPackage: "Per package",
	Empty:      "No ingredients selected.",
	Sheet:      "Shopping list",
}

func headingsFor(f *format.Formatter) headings {
	base, _ := f.Tag().Base()
	if base.String() == "en" {
		return englishHeadings
	}
	return germanHeadings
}

func displayName(rec ingredients.PurchaseRecommendation) string {
	if rec.DisplayName != "" {
		return rec.DisplayName
	}
	return rec.IngredientName
}
