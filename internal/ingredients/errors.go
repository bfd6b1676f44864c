package ingredients

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound reports a product or ingredient that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrCollaboratorUnavailable reports a failed lookup in the catalogue.
	ErrCollaboratorUnavailable = errors.New("catalog unavailable")
	// ErrUnitMismatch reports an ingredient used with conflicting units.
	ErrUnitMismatch = errors.New("unit mismatch")
	// ErrInvalidPackaging reports a packaging row with a non-positive size.
	ErrInvalidPackaging = errors.New("invalid packaging")
	// ErrInvalidQuantity reports a negative requested quantity.
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// Error carries the identifiers needed to act on an aggregation failure.
// Kind is one of the package sentinels and matches with errors.Is.
type Error struct {
	Kind         error
	ProductID    uint
	IngredientID uint
	Name         string
	Units        []string
	Err          error
}

func (e *Error) Error() string {
	var b strings.Builder
	switch {
	case errors.Is(e.Kind, ErrUnitMismatch):
		fmt.Fprintf(&b, "ingredient %d", e.IngredientID)
		if e.Name != "" {
			fmt.Fprintf(&b, " (%s)", e.Name)
		}
		fmt.Fprintf(&b, " has inconsistent units across recipes: %s", strings.Join(e.Units, ", "))
	case errors.Is(e.Kind, ErrInvalidPackaging):
		fmt.Fprintf(&b, "ingredient %d", e.IngredientID)
		if e.Name != "" {
			fmt.Fprintf(&b, " (%s)", e.Name)
		}
		b.WriteString(" has a non-positive amount per package")
	default:
		b.WriteString(e.Kind.Error())
		if e.ProductID != 0 {
			fmt.Fprintf(&b, ": product %d", e.ProductID)
		}
		if e.IngredientID != 0 {
			fmt.Fprintf(&b, ": ingredient %d", e.IngredientID)
		}
	}
	if e.Err != nil && !errors.Is(e.Err, e.Kind) {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// classify maps a catalogue failure onto the error taxonomy. Context
// cancellation is passed through untouched so callers can tell an abandoned
// request from a broken backend.
func classify(err error, productID, ingredientID uint) error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	kind := ErrCollaboratorUnavailable
	if errors.Is(err, ErrNotFound) {
		kind = ErrNotFound
	}
	return &Error{Kind: kind, ProductID: productID, IngredientID: ingredientID, Err: err}
}
