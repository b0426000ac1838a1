package observability

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-exporter/internal/rendering"
)

func TestObserveRender(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveRender("typst", "pdf", 200*time.Millisecond, nil)
	m.ObserveRender("typst", "pdf", time.Second, nil)
	m.ObserveRender("rendercv", "html", time.Second, &rendering.MissingToolError{Tool: "rendercv"})
	m.ObserveRender("rendercv", "pdf", time.Second, &rendering.ProcessError{Tool: "rendercv", ExitCode: 1})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.renders.WithLabelValues("typst", "pdf", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.renders.WithLabelValues("rendercv", "html", OutcomeToolMissing)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.renders.WithLabelValues("rendercv", "pdf", OutcomeFailure)))
	assert.Equal(t, 3, testutil.CollectAndCount(m.renderDuration))
}

func TestObserveRequest(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.ObserveRequest("/health", http.StatusOK)
	m.ObserveRequest("/health", http.StatusOK)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/health", "200")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRender("typst", "pdf", time.Second, nil)
		m.ObserveRequest("/health", http.StatusOK)
	})
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, Outcome(nil))
	assert.Equal(t, OutcomeToolMissing, Outcome(fmt.Errorf("wrapped: %w", &rendering.MissingToolError{Tool: "typst"})))
	assert.Equal(t, OutcomeFailure, Outcome(errors.New("boom")))
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.ObserveRender("markdown", "html", time.Second, nil)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `resume_exporter_renders_total{format="html",outcome="success",target="markdown"} 1`)
}
