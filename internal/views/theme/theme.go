package theme

import "strings"

// Option represents a selectable print style.
type Option struct {
	Value string
	Label string
}

// PrintTheme holds the stylesheet of a printed list.
type PrintTheme struct {
	Key        string
	Stylesheet string
}

const (
	// DefaultKey is used when the request names no known style.
	DefaultKey = "standard"
)

const base = `table{border-collapse:collapse;width:100%}` +
	`td.num{text-align:right}` +
	`@media print{.no-print{display:none}}`

var catalogue = map[string]PrintTheme{
	"standard": {
		Key: "standard",
		Stylesheet: `body{font-family:sans-serif;margin:2rem}` +
			`th,td{border-bottom:1px solid #ccc;padding:.3rem .5rem;text-align:left}` + base,
	},
	"kompakt": {
		Key: "kompakt",
		Stylesheet: `body{font-family:sans-serif;font-size:11px;margin:1rem}` +
			`th,td{border-bottom:1px solid #ddd;padding:.1rem .3rem;text-align:left}` + base,
	},
	"kueche": {
		Key: "kueche",
		Stylesheet: `body{font-family:sans-serif;font-size:20px;margin:1rem;color:#000}` +
			`th,td{border:2px solid #000;padding:.6rem;text-align:left}` + base,
	},
}

var options = []Option{
	{Value: "standard", Label: "Standard"},
	{Value: "kompakt", Label: "Kompakt"},
	{Value: "kueche", Label: "Küche (große Schrift)"},
}

// Resolve returns the print theme for key, falling back to DefaultKey.
func Resolve(key string) PrintTheme {
	normalized := strings.ToLower(strings.TrimSpace(key))
	if value, ok := catalogue[normalized]; ok {
		return value
	}
	return catalogue[DefaultKey]
}

// Options lists the available styles in display order.
func Options() []Option {
	return options
}
