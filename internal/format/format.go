// Package format renders amounts, package counts and dates for printed and
// exported lists.
package format

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders values using the conventions of one locale. The zero
// value is not usable; build one with New.
type Formatter struct {
	tag     language.Tag
	base    language.Base
	printer *message.Printer
}

// New returns a Formatter for a BCP 47 tag such as "de-DE". Unparseable tags
// fall back to German.
func New(locale string) *Formatter {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		tag = language.German
	}
	base, _ := tag.Base()
	return &Formatter{
		tag:     tag,
		base:    base,
		printer: message.NewPrinter(tag),
	}
}

// Tag returns the language tag the formatter was built for.
func (f *Formatter) Tag() language.Tag {
	return f.tag
}

// maxFractionDigits keeps gram and millilitre totals such as 0,125 l exact.
const maxFractionDigits = 3

// FormatNumber renders value with at most three fraction digits and the
// locale's decimal and grouping separators.
func (f *Formatter) FormatNumber(value float64) string {
	return f.printer.Sprint(number.Decimal(value, number.MaxFractionDigits(maxFractionDigits)))
}

// FormatAmount renders value followed by unit, e.g. "3,5 kg". Unit strings are
// rendered as given.
func (f *Formatter) FormatAmount(value float64, unit string) string {
	rendered := f.FormatNumber(value)
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return rendered
	}
	return rendered + " " + unit
}

// FormatDecimal is FormatAmount for fixed-point amounts. Values are rounded
// half away from zero before rendering.
func (f *Formatter) FormatDecimal(value decimal.Decimal, unit string) string {
	return f.FormatAmount(value.Round(maxFractionDigits).InexactFloat64(), unit)
}

// FormatPackages renders a package count with the correctly inflected label,
// e.g. "3 Säcke".
func (f *Formatter) FormatPackages(count int64, label string) string {
	label = strings.TrimSpace(label)
	rendered := f.printer.Sprint(number.Decimal(count))
	if label == "" {
		return rendered
	}
	return rendered + " " + f.Pluralize(float64(count), label)
}

// FormatDate renders t as a calendar date: 24.12.2025 in German, 2025-12-24 elsewhere.
func (f *Formatter) FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if f.base.String() == "de" {
		return t.Format("02.01.2006")
	}
	return t.Format("2006-01-02")
}
