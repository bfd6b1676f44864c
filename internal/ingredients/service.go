package ingredients

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	applog "packliste/internal/log"
)

// Observer receives the outcome of every AggregateAndProject call.
type Observer interface {
	ObserveAggregation(selections, ingredients int, elapsed time.Duration, err error)
}

// Service is the single entry point used by views and exports.
type Service struct {
	catalog        Catalog
	aggregator     *Aggregator
	maxConcurrency int
	collation      language.Tag
	observer       Observer
}

type Option func(*Service)

// WithMaxConcurrency bounds the number of catalogue lookups in flight per call.
func WithMaxConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxConcurrency = n
		}
	}
}

// WithCollation sets the language whose alphabetical order is used for output.
func WithCollation(tag language.Tag) Option {
	return func(s *Service) {
		s.collation = tag
	}
}

func WithObserver(observer Observer) Option {
	return func(s *Service) {
		s.observer = observer
	}
}

func NewService(catalog Catalog, opts ...Option) *Service {
	s := &Service{
		catalog:        catalog,
		maxConcurrency: defaultMaxConcurrency,
		collation:      language.German,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.aggregator = NewAggregator(NewResolver(catalog), s.maxConcurrency)
	return s
}

// Aggregate exposes the merged ingredient map without packaging projection.
func (s *Service) Aggregate(ctx context.Context, selections []Selection) (map[uint]Line, error) {
	return s.aggregator.Aggregate(ctx, selections)
}

// AggregateAndProject aggregates selections, projects each ingredient onto its
// packaging and returns the recommendations sorted by ingredient name.
func (s *Service) AggregateAndProject(ctx context.Context, selections []Selection) (recs []PurchaseRecommendation, err error) {
	started := time.Now()
	defer func() {
		if s.observer != nil {
			s.observer.ObserveAggregation(len(selections), len(recs), time.Since(started), err)
		}
	}()

	lines, err := s.aggregator.Aggregate(ctx, selections)
	if err != nil {
		return nil, err
	}

	ordered := make([]Line, 0, len(lines))
	for _, line := range lines {
		ordered = append(ordered, line)
	}
	s.sortLines(ordered)

	projected := make([]PurchaseRecommendation, len(ordered))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)
	for i, line := range ordered {
		i, line := i, line
		g.Go(func() error {
			packaging, err := s.catalog.Packaging(gctx, line.IngredientID)
			if err != nil {
				return classify(err, 0, line.IngredientID)
			}
			rec, err := Project(line, packaging)
			if err != nil {
				return err
			}
			projected[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	disambiguate(projected)

	applog.Debug(ctx, "aggregated selections", "selections", len(selections), "ingredients", len(projected))
	return projected, nil
}

func (s *Service) sortLines(lines []Line) {
	collator := collate.New(s.collation, collate.IgnoreCase)
	sort.SliceStable(lines, func(i, j int) bool {
		if c := collator.CompareString(lines[i].IngredientName, lines[j].IngredientName); c != 0 {
			return c < 0
		}
		return lines[i].IngredientID < lines[j].IngredientID
	})
}

// disambiguate appends the category (or the ID when the category is missing
// or shared) to display names used by more than one distinct ingredient.
func disambiguate(recs []PurchaseRecommendation) {
	byName := make(map[string][]int)
	for i, rec := range recs {
		byName[rec.IngredientName] = append(byName[rec.IngredientName], i)
	}
	for _, indexes := range byName {
		if len(indexes) < 2 {
			continue
		}
		categories := make(map[string]int)
		for _, idx := range indexes {
			categories[recs[idx].Category]++
		}
		for _, idx := range indexes {
			rec := &recs[idx]
			if rec.Category != "" && categories[rec.Category] == 1 {
				rec.DisplayName = fmt.Sprintf("%s (%s)", rec.IngredientName, rec.Category)
				continue
			}
			rec.DisplayName = fmt.Sprintf("%s (#%d)", rec.IngredientName, rec.IngredientID)
		}
	}
}
