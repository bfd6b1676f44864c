package format

import "strings"

type pluralRules struct {
	irregular map[string]string
	suffix    string
}

// German plurals of packaging and unit labels cannot be derived from a suffix
// rule, so every known label is listed. Unknown labels stay unchanged.
var germanPlurals = pluralRules{
	irregular: map[string]string{
		"Sack":     "Säcke",
		"Packung":  "Packungen",
		"Flasche":  "Flaschen",
		"Kiste":    "Kisten",
		"Glas":     "Gläser",
		"Dose":     "Dosen",
		"Stück":    "Stück",
		"Kanister": "Kanister",
		"Eimer":    "Eimer",
		"Beutel":   "Beutel",
		"Karton":   "Kartons",
		"Rolle":    "Rollen",
		"Tüte":     "Tüten",
		"Schale":   "Schalen",
		"Becher":   "Becher",
		"Tube":     "Tuben",
		"Netz":     "Netze",
		"Kasten":   "Kästen",
		"Bund":     "Bunde",
		"Palette":  "Paletten",
		"Portion":  "Portionen",
		"Blech":    "Bleche",
	},
}

var englishPlurals = pluralRules{
	irregular: map[string]string{
		"box":    "boxes",
		"glass":  "glasses",
		"bunch":  "bunches",
		"piece":  "pieces",
		"kg":     "kg",
		"g":      "g",
		"l":      "l",
		"ml":     "ml",
		"pallet": "pallets",
	},
	suffix: "s",
}

// Locales without a table leave labels unchanged rather than borrowing
// another language's plurals.
var pluralTables = map[string]pluralRules{
	"de": germanPlurals,
	"en": englishPlurals,
}

func (f *Formatter) rules() (pluralRules, bool) {
	rules, ok := pluralTables[f.base.String()]
	return rules, ok
}

// Pluralize returns label in the form matching count: singular for exactly
// one, otherwise the plural from the locale's table.
func (f *Formatter) Pluralize(count float64, label string) string {
	if count == 1 || label == "" {
		return label
	}
	rules, ok := f.rules()
	if !ok {
		return label
	}
	if plural, ok := rules.irregular[label]; ok {
		return plural
	}
	for singular, plural := range rules.irregular {
		if strings.EqualFold(singular, label) {
			return matchCase(label, plural)
		}
	}
	if rules.suffix == "" {
		return label
	}
	return label + rules.suffix
}

func matchCase(original, plural string) string {
	if original == strings.ToUpper(original) {
		return strings.ToUpper(plural)
	}
	if original == strings.ToLower(original) {
		return strings.ToLower(plural)
	}
	return plural
}
