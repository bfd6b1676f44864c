package ingredients

import "strings"

type packagingHint struct {
	fragment string
	label    string
}

// packagingHints is checked in order; more specific fragments come first.
var packagingHints = []packagingHint{
	{"essig", "Flasche"},
	{"öl", "Flasche"},
	{"oel", "Flasche"},
	{"sirup", "Flasche"},
	{"saft", "Flasche"},
	{"sauce", "Flasche"},
	{"soße", "Flasche"},
	{"ketchup", "Flasche"},
	{"senf", "Tube"},
	{"mayo", "Eimer"},
	{"wasser", "Kiste"},
	{"bier", "Kiste"},
	{"mehl", "Sack"},
	{"zucker", "Sack"},
	{"kartoffel", "Sack"},
	{"zwiebel", "Netz"},
	{"salz", "Packung"},
	{"gewürz", "Dose"},
	{"pfeffer", "Dose"},
	{"milch", "Packung"},
	{"sahne", "Packung"},
	{"käse", "Packung"},
	{"brötchen", "Beutel"},
	{"bun", "Beutel"},
	{"servietten", "Packung"},
	{"becher", "Karton"},
	{"rolle", "Karton"},
}

// GuessPackaging derives a likely container label from a product name. It is
// a stop-gap for products without a packaging row and carries no guarantees;
// ok is false when nothing matched.
func GuessPackaging(productName string) (label string, ok bool) {
	name := strings.ToLower(strings.TrimSpace(productName))
	if name == "" {
		return "", false
	}
	for _, hint := range packagingHints {
		if strings.Contains(name, hint.fragment) {
			return hint.label, true
		}
	}
	return "", false
}
