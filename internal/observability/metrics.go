package observability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonathan/resume-exporter/internal/rendering"
)

// Render outcomes used as the "outcome" label.
const (
	OutcomeSuccess     = "success"
	OutcomeToolMissing = "tool_missing"
	OutcomeFailure     = "failure"
)

// Metrics holds the exporter's Prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	requests       *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resume_exporter_renders_total",
			Help: "Renders attempted, by target, format and outcome.",
		}, []string{"target", "format", "outcome"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "resume_exporter_render_duration_seconds",
			Help:    "Wall time of render invocations.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"target", "format"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resume_exporter_http_requests_total",
			Help: "HTTP requests served, by route and status code.",
		}, []string{"route", "status"}),
	}
	reg.MustRegister(m.renders, m.renderDuration, m.requests)
	return m
}

// ObserveRender records one render attempt.
func (m *Metrics) ObserveRender(target, format string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(target, format, Outcome(err)).Inc()
	m.renderDuration.WithLabelValues(target, format).Observe(elapsed.Seconds())
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route string, status int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// Outcome classifies a render error into an outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, rendering.ErrToolMissing):
		return OutcomeToolMissing
	default:
		return OutcomeFailure
	}
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
