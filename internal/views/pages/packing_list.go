package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"packliste/internal/format"
	"packliste/internal/ingredients"
	"packliste/internal/views/theme"
)

// PackingListItem is one printable row with amounts already formatted.
type PackingListItem struct {
	Name     string
	Category string
	Amount   string
	Packages string
}

// PackingListData captures everything rendered on a printed Packliste.
type PackingListData struct {
	Title    string
	Date     string
	Location string
	Notes    string
	Items    []PackingListItem
	// Theme selects the print stylesheet; the zero value renders the default.
	Theme theme.PrintTheme
}

// NewPackingListData formats recs for printing.
func NewPackingListData(title, date, location, notes string, recs []ingredients.PurchaseRecommendation, f *format.Formatter) PackingListData {
	data := PackingListData{
		Title:    title,
		Date:     date,
		Location: location,
		Notes:    notes,
		Items:    make([]PackingListItem, 0, len(recs)),
	}
	for _, rec := range recs {
		name := rec.DisplayName
		if name == "" {
			name = rec.IngredientName
		}
		data.Items = append(data.Items, PackingListItem{
			Name:     name,
			Category: rec.Category,
			Amount:   f.FormatDecimal(rec.Total, rec.Unit),
			Packages: f.FormatPackages(rec.PackageCount, rec.PackageLabel),
		})
	}
	return data
}

// PackingList renders a standalone printable HTML page.
func PackingList(data PackingListData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		e := templ.EscapeString[string]
		style := data.Theme
		if style.Stylesheet == "" {
			style = theme.Resolve(theme.DefaultKey)
		}
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html><html lang="de"><head><meta charset="utf-8"><title>%s</title><style>%s</style></head>`,
			e(data.Title), style.Stylesheet); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, `<body class="theme-%s"><h1>%s</h1>`, e(style.Key), e(data.Title)); err != nil {
			return err
		}
		if data.Date != "" || data.Location != "" {
			if _, err := fmt.Fprintf(w, `<p class="meta">%s %s</p>`, e(data.Date), e(data.Location)); err != nil {
				return err
			}
		}
		if data.Notes != "" {
			if _, err := fmt.Fprintf(w, `<p class="notes">%s</p>`, e(data.Notes)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<table><thead><tr><th>Zutat</th><th>Kategorie</th><th>Menge</th><th>Gebinde</th><th>✓</th></tr></thead><tbody>`); err != nil {
			return err
		}
		for _, item := range data.Items {
			if _, err := fmt.Fprintf(w, `<tr><td>%s</td><td>%s</td><td class="num">%s</td><td class="num">%s</td><td>☐</td></tr>`,
				e(item.Name), e(item.Category), e(item.Amount), e(item.Packages)); err != nil {
				return err
			}
		}
		if len(data.Items) == 0 {
			if _, err := io.WriteString(w, `<tr><td colspan="5">Keine Zutaten ausgewählt.</td></tr>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</tbody></table><button class="no-print" onclick="window.print()">Drucken</button></body></html>`)
		return err
	})
}
