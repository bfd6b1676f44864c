// Package metrics exposes prometheus collectors for aggregation runs and
// HTTP traffic.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"packliste/internal/ingredients"
)

const namespace = "packliste"

const (
	OutcomeOK               = "ok"
	OutcomeNotFound         = "not_found"
	OutcomeUnavailable      = "unavailable"
	OutcomeUnitMismatch     = "unit_mismatch"
	OutcomeInvalidPackaging = "invalid_packaging"
	OutcomeInvalidQuantity  = "invalid_quantity"
	OutcomeCanceled         = "canceled"
	OutcomeUnknown          = "unknown"
)

// Metrics owns a private registry so several instances can coexist in tests.
type Metrics struct {
	registry     *prometheus.Registry
	aggregations *prometheus.CounterVec
	duration     prometheus.Histogram
	selections   prometheus.Histogram
	ingredients  prometheus.Histogram
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
}

var _ ingredients.Observer = (*Metrics)(nil)

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		aggregations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregations_total",
			Help:      "Aggregation runs by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "aggregation_duration_seconds",
			Help:      "Wall time of aggregate-and-project calls.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		selections: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "aggregation_selections",
			Help:      "Number of selections per aggregation run.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 200},
		}),
		ingredients: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "aggregation_ingredients",
			Help:      "Number of distinct ingredients per successful run.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250},
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.aggregations,
		m.duration,
		m.selections,
		m.ingredients,
		m.requests,
		m.latency,
	)
	return m
}

// ObserveAggregation records one aggregate-and-project call.
func (m *Metrics) ObserveAggregation(selections, ingredientCount int, elapsed time.Duration, err error) {
	m.aggregations.WithLabelValues(Outcome(err)).Inc()
	m.duration.Observe(elapsed.Seconds())
	m.selections.Observe(float64(selections))
	if err == nil {
		m.ingredients.Observe(float64(ingredientCount))
	}
}

// Outcome classifies an aggregation error into a bounded label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	case errors.Is(err, ingredients.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, ingredients.ErrCollaboratorUnavailable):
		return OutcomeUnavailable
	case errors.Is(err, ingredients.ErrUnitMismatch):
		return OutcomeUnitMismatch
	case errors.Is(err, ingredients.ErrInvalidPackaging):
		return OutcomeInvalidPackaging
	case errors.Is(err, ingredients.ErrInvalidQuantity):
		return OutcomeInvalidQuantity
	default:
		return OutcomeUnknown
	}
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware counts requests and observes their latency.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		m.requests.WithLabelValues(r.Method, strconv.Itoa(recorder.status)).Inc()
		m.latency.WithLabelValues(r.Method).Observe(time.Since(started).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
