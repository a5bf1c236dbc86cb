package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveUpstream(t *testing.T) {
	m := New()

	m.ObserveUpstream("countries", 200, 120*time.Millisecond)
	m.ObserveUpstream("countries", 200, 80*time.Millisecond)
	m.ObserveUpstream("countries", 503, time.Second)
	m.ObserveUpstream("forecast", 0, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.upstreamRequests.WithLabelValues("countries", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.upstreamRequests.WithLabelValues("countries", "503")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.upstreamRequests.WithLabelValues("forecast", "error")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.upstreamLatency))
}

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.SentinelResponse("/weather-forecast")
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.sentinelReplies.WithLabelValues("/weather-forecast")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveUpstream("countries", 200, time.Second)
		m.SentinelResponse("/country_response")
		m.CacheLookup(true)
	})
	assert.NotNil(t, m.Handler())
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.SentinelResponse("/province_response")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `sentinel_responses_total{route="/province_response"} 1`)
}
