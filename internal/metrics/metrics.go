// Package metrics exposes Prometheus collectors for the HTTP surface and the
// suggestion pipeline.
package metrics

import (
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/apperr"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "healthwise"

type Metrics struct {
	registry *prometheus.Registry

	inFlight         prometheus.Gauge
	requests         *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	suggestions      *prometheus.CounterVec
	historySaveFails prometheus.Counter
	analyticsDropped prometheus.Counter
}

// New builds a private registry so tests can create as many instances as they
// like without duplicate registration panics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being served.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		suggestions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestions_generated_total",
			Help:      "Suggestion sets generated by goal and caller type.",
		}, []string{"goal", "authenticated"}),
		historySaveFails: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestion_history_save_failures_total",
			Help:      "Suggestion history rows that could not be written.",
		}),
		analyticsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analytics_events_dropped_total",
			Help:      "Analytics events that never reached the analytics file.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.inFlight,
		m.requests,
		m.duration,
		m.suggestions,
		m.historySaveFails,
		m.analyticsDropped,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Middleware records in-flight, count and latency for every request. A
// returned error is counted with the status the error handler will send.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = apperr.From(err).Status
		}
		route := c.Route().Path
		if status == fiber.StatusNotFound && route == "/" && c.Path() != "/" {
			route = "unmatched"
		}

		// label values outlive the request; fiber strings do not
		method := utils.CopyString(c.Method())
		m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func (m *Metrics) ObserveSuggestion(goal string, authenticated bool) {
	m.suggestions.WithLabelValues(goal, strconv.FormatBool(authenticated)).Inc()
}

func (m *Metrics) HistorySaveFailed() {
	m.historySaveFails.Inc()
}

func (m *Metrics) AnalyticsDropped() {
	m.analyticsDropped.Inc()
}
