package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest("/transcript", http.MethodPost, http.StatusOK, 10*time.Millisecond)
	m.ObserveRequest("/transcript", http.MethodPost, http.StatusOK, 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestCount("/transcript", http.MethodPost, http.StatusOK)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RequestCount("/transcript", http.MethodPost, http.StatusNotFound)))
}

func TestObserveFetch(t *testing.T) {
	m := New()
	m.ObserveFetch(OutcomeSuccess, 1)
	m.ObserveFetch(OutcomeNotFound, 3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchCount(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchCount(OutcomeNotFound)))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("/", http.MethodGet, http.StatusOK, time.Millisecond)
		m.ObserveFetch(OutcomeSuccess, 1)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveFetch(OutcomeTimeout, 0)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `transcript_fetch_total{outcome="timeout"} 1`)
}
