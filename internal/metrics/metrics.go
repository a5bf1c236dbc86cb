package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the backend's Prometheus instruments.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	sentinelReplies  *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
}

// New registers the instruments on a fresh registry
func New() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry registers the instruments on reg
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		upstreamRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "accuweather_requests_total",
			Help: "Total number of AccuWeather API requests by endpoint and status code",
		}, []string{"endpoint", "status"}),
		upstreamLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "accuweather_request_duration_seconds",
			Help:    "Time taken by AccuWeather API requests",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),
		sentinelReplies: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_responses_total",
			Help: "Total number of responses answered with the error sentinel object",
		}, []string{"route"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "option_cache_lookups_total",
			Help: "Option-list cache lookups by result",
		}, []string{"result"}),
	}
}

// ObserveUpstream records one AccuWeather call. status 0 means the request never got a response.
func (m *Metrics) ObserveUpstream(endpoint string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.upstreamRequests.WithLabelValues(endpoint, label).Inc()
	m.upstreamLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// SentinelResponse counts a sentinel object returned on route
func (m *Metrics) SentinelResponse(route string) {
	if m == nil {
		return
	}
	m.sentinelReplies.WithLabelValues(route).Inc()
}

// CacheLookup counts a cache hit or miss
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
