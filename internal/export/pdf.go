package export

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"packliste/internal/format"
	"packliste/internal/ingredients"
)

// PDF lays out recs as a printable A4 table with one row per ingredient.
func PDF(title string, recs []ingredients.PurchaseRecommendation, f *format.Formatter) ([]byte, error) {
	h := headingsFor(f)

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "{current} / {total}",
			Place:   props.RightBottom,
		}).
		WithTitle(title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRow(16,
		text.NewCol(12, title, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	header := props.Text{Style: fontstyle.Bold, Size: 9}
	headerRight := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}
	m.AddRow(8,
		text.NewCol(5, h.Ingredient, header),
		text.NewCol(3, h.Category, header),
		text.NewCol(2, h.Total, headerRight),
		text.NewCol(2, h.Packages, headerRight),
	)

	if len(recs) == 0 {
		m.AddRow(8, text.NewCol(12, h.Empty, props.Text{Size: 9, Style: fontstyle.Italic}))
	}

	cell := props.Text{Size: 9}
	cellRight := props.Text{Size: 9, Align: align.Right}
	for _, rec := range recs {
		m.AddRow(7,
			text.NewCol(5, displayName(rec), cell),
			text.NewCol(3, rec.Category, cell),
			text.NewCol(2, f.FormatDecimal(rec.Total, rec.Unit), cellRight),
			text.NewCol(2, f.FormatPackages(rec.PackageCount, rec.PackageLabel), cellRight),
		)
	}

	m.AddRow(10, col.New(12))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return doc.GetBytes(), nil
}
