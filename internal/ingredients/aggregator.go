package ingredients

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

const defaultMaxConcurrency = 8

// Aggregator merges the scaled recipe lines of many selections into one
// requirement per ingredient. It holds no state between calls.
type Aggregator struct {
	resolver       *Resolver
	maxConcurrency int
}

func NewAggregator(resolver *Resolver, maxConcurrency int) *Aggregator {
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMaxConcurrency
	}
	return &Aggregator{resolver: resolver, maxConcurrency: maxConcurrency}
}

// Aggregate resolves every selection with a positive quantity and merges the
// results keyed by ingredient ID. Either every selection resolves and the full
// map is returned, or the failure of the earliest failing selection is
// returned and no map is produced.
func (a *Aggregator) Aggregate(ctx context.Context, selections []Selection) (map[uint]Line, error) {
	resolved := make([][]ScaledLine, len(selections))
	errs := make([]error, len(selections))

	// Failures are kept per selection instead of cancelling siblings, so the
	// reported error does not depend on goroutine scheduling.
	var g errgroup.Group
	g.SetLimit(a.maxConcurrency)
	for i, selection := range selections {
		if !selection.Quantity.IsPositive() {
			continue
		}
		i, selection := i, selection
		g.Go(func() error {
			resolved[i], errs[i] = a.resolver.Resolve(ctx, selection.ProductID, selection.Quantity)
			return nil
		})
	}
	_ = g.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	// Merge in selection order so contribution lists are stable across runs.
	merged := make(map[uint]Line)
	units := make(map[uint][]string)
	for i, lines := range resolved {
		for _, scaled := range lines {
			contribution := Contribution{
				ProductID:       scaled.SourceProductID,
				ProductName:     firstNonEmpty(selections[i].ProductName, scaled.SourceProductName),
				ProductQuantity: scaled.SourceQuantity,
			}

			line, ok := merged[scaled.IngredientID]
			if !ok {
				merged[scaled.IngredientID] = Line{
					IngredientID:   scaled.IngredientID,
					IngredientName: scaled.IngredientName,
					Category:       scaled.IngredientCategory,
					Unit:           scaled.Unit,
					Total:          scaled.Amount,
					Contributions:  []Contribution{contribution},
				}
				units[scaled.IngredientID] = []string{scaled.Unit}
				continue
			}

			if !sameUnit(line.Unit, scaled.Unit) {
				units[scaled.IngredientID] = appendUnique(units[scaled.IngredientID], scaled.Unit)
				continue
			}
			line.Total = line.Total.Add(scaled.Amount)
			line.Contributions = append(line.Contributions, contribution)
			merged[scaled.IngredientID] = line
		}
	}

	if err := unitMismatch(merged, units); err != nil {
		return nil, err
	}
	return merged, nil
}

// unitMismatch reports the lowest conflicting ingredient ID so repeated runs
// fail with the same error.
func unitMismatch(merged map[uint]Line, units map[uint][]string) error {
	var conflicting []uint
	for id, seen := range units {
		if len(seen) > 1 {
			conflicting = append(conflicting, id)
		}
	}
	if len(conflicting) == 0 {
		return nil
	}
	sort.Slice(conflicting, func(i, j int) bool { return conflicting[i] < conflicting[j] })
	id := conflicting[0]
	found := append([]string(nil), units[id]...)
	sort.Strings(found)
	return &Error{Kind: ErrUnitMismatch, IngredientID: id, Name: merged[id].IngredientName, Units: found}
}

func sameUnit(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func appendUnique(values []string, value string) []string {
	for _, existing := range values {
		if sameUnit(existing, value) {
			return values
		}
	}
	return append(values, value)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
