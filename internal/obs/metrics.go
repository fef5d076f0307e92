package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records
// nothing, so components can be built without observability in tests.
type Metrics struct {
	SearchRequests   prometheus.Counter
	MockFallbacks    prometheus.Counter
	ProviderRequests *prometheus.CounterVec
	ProviderLatency  *prometheus.HistogramVec
	CacheLookups     *prometheus.CounterVec
	TokenExchanges   *prometheus.CounterVec
	HTTPRequests     *prometheus.CounterVec

	registry *prometheus.Registry
}

func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		SearchRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "offer_search_requests_total",
			Help: "Total number of aggregated offer searches",
		}),
		MockFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "offer_mock_fallbacks_total",
			Help: "Searches answered by the mock offer generator",
		}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Provider searches by outcome",
		}, []string{"provider", "outcome"}),
		ProviderLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "provider_latency_seconds",
			Help:    "Latency of outbound provider searches",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "result_cache_lookups_total",
			Help: "Result cache lookups by namespace and result",
		}, []string{"namespace", "result"}),
		TokenExchanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "token_exchanges_total",
			Help: "OAuth2 client-credentials exchanges by outcome",
		}, []string{"provider", "outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		registry: reg,
	}

	reg.MustRegister(
		m.SearchRequests,
		m.MockFallbacks,
		m.ProviderRequests,
		m.ProviderLatency,
		m.CacheLookups,
		m.TokenExchanges,
		m.HTTPRequests,
	)

	return m
}

func (m *Metrics) IncSearchRequests() {
	if m == nil {
		return
	}
	m.SearchRequests.Inc()
}

func (m *Metrics) IncMockFallback() {
	if m == nil {
		return
	}
	m.MockFallbacks.Inc()
}

func (m *Metrics) ObserveProvider(provider, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.ProviderRequests.WithLabelValues(provider, outcome).Inc()
	m.ProviderLatency.WithLabelValues(provider).Observe(seconds)
}

func (m *Metrics) IncCacheLookup(namespace string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(namespace, result).Inc()
}

func (m *Metrics) IncTokenExchange(provider, outcome string) {
	if m == nil {
		return
	}
	m.TokenExchanges.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) IncHTTPRequest(method, path, status string) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, path, status).Inc()
}

func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
