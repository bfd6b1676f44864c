package ingredients

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestResolveScalesRecipeLines(t *testing.T) {
	t.Parallel()

	r := NewResolver(burgerCatalog())
	lines, err := r.Resolve(context.Background(), 1, qty(5))
	require.NoError(t, err)
	require.Len(t, lines, 2)

	require.Equal(t, uint(10), lines[0].IngredientID)
	require.True(t, lines[0].Amount.Equal(qty(5)))
	require.Equal(t, uint(11), lines[1].IngredientID)
	require.True(t, lines[1].Amount.Equal(qty(750)))
	require.Equal(t, uint(1), lines[1].SourceProductID)
	require.Equal(t, "Burger", lines[1].SourceProductName)
	require.True(t, lines[1].SourceQuantity.Equal(qty(5)))
}

func TestResolveZeroQuantityIsEmpty(t *testing.T) {
	t.Parallel()

	lines, err := NewResolver(burgerCatalog()).Resolve(context.Background(), 1, decimal.Zero)
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestResolveUnknownProduct(t *testing.T) {
	t.Parallel()

	_, err := NewResolver(burgerCatalog()).Resolve(context.Background(), 99, qty(1))
	require.ErrorIs(t, err, ErrNotFound)

	var typed *Error
	require.True(t, errors.As(err, &typed))
	require.Equal(t, uint(99), typed.ProductID)
}

func TestResolveUnknownProductWithZeroQuantity(t *testing.T) {
	t.Parallel()

	_, err := NewResolver(burgerCatalog()).Resolve(context.Background(), 99, decimal.Zero)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolveNegativeQuantity(t *testing.T) {
	t.Parallel()

	_, err := NewResolver(burgerCatalog()).Resolve(context.Background(), 1, qty(-1))
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestResolveCatalogFailureIsNotMasked(t *testing.T) {
	t.Parallel()

	c := burgerCatalog()
	c.failOn[1] = errors.New("connection reset by peer")

	lines, err := NewResolver(c).Resolve(context.Background(), 1, qty(2))
	require.ErrorIs(t, err, ErrCollaboratorUnavailable)
	require.Nil(t, lines)
	require.Contains(t, err.Error(), "connection reset by peer")
}

func TestResolvePassesNonPositiveAmountsThrough(t *testing.T) {
	t.Parallel()

	c := burgerCatalog()
	c.addProduct(4, "Leerer Teller", "Stück")
	c.addLine(4, 12, "Garnitur", "g", 0)
	c.addLine(4, 13, "Korrektur", "g", -5)

	lines, err := NewResolver(c).Resolve(context.Background(), 4, qty(3))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.True(t, lines[0].Amount.IsZero())
	require.True(t, lines[1].Amount.Equal(qty(-15)))
}

func TestResolveProductWithoutRecipe(t *testing.T) {
	t.Parallel()

	lines, err := NewResolver(burgerCatalog()).Resolve(context.Background(), 3, qty(10))
	require.NoError(t, err)
	require.Empty(t, lines)
}
