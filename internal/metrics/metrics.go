// Package metrics provides Prometheus metrics for the TravelTodo backend
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"traveltodo/internal/models"
)

// Metrics holds all Prometheus collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	// HTTP request metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Chatbot metrics
	ChatTurnsTotal       *prometheus.CounterVec
	RecommendationsTotal *prometheus.CounterVec

	// Reply generator metrics
	GeneratorCallsTotal   *prometheus.CounterVec
	GeneratorCallDuration *prometheus.HistogramVec
}

// New creates and registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{}

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traveltodo_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "traveltodo_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	m.HTTPRequestsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "traveltodo_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	m.ChatTurnsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traveltodo_chat_turns_total",
			Help: "Chat turns handled, by detected intent",
		},
		[]string{"intent"},
	)

	m.RecommendationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traveltodo_recommendations_total",
			Help: "Recommendations returned, by type and source",
		},
		[]string{"type", "source"},
	)

	m.GeneratorCallsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traveltodo_generator_calls_total",
			Help: "Calls to the external reply generator, by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	m.GeneratorCallDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "traveltodo_generator_call_duration_seconds",
			Help:    "Duration of external reply generator calls in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	return m
}

// ObserveHTTP records a completed request.
func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) RequestStarted() {
	if m == nil {
		return
	}
	m.HTTPRequestsInFlight.Inc()
}

func (m *Metrics) RequestFinished() {
	if m == nil {
		return
	}
	m.HTTPRequestsInFlight.Dec()
}

// ObserveTurn records one handled chat message and its recommendations.
func (m *Metrics) ObserveTurn(intent models.Intent, recs []models.Recommendation) {
	if m == nil {
		return
	}
	m.ChatTurnsTotal.WithLabelValues(string(intent)).Inc()
	for _, rec := range recs {
		m.RecommendationsTotal.WithLabelValues(string(rec.Type), string(rec.Source)).Inc()
	}
}

// ObserveGenerator records one external generator call.
func (m *Metrics) ObserveGenerator(provider, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.GeneratorCallsTotal.WithLabelValues(provider, outcome).Inc()
	m.GeneratorCallDuration.WithLabelValues(provider).Observe(duration.Seconds())
}
