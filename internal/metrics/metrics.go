// metrics реализует service.Metrics поверх prometheus/client_golang.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "news_facade"

// Metrics: коллекторы фасада.
type Metrics struct {
	fetchTotal     *prometheus.CounterVec
	fetchDuration  *prometheus.HistogramVec
	droppedTotal   *prometheus.CounterVec
	coalescedTotal prometheus.Counter
}

// New создаёт коллекторы и регистрирует их в reg.
// reg == nil означает prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		fetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_total",
			Help:      "FetchNews calls by provider, outcome (success|fallback) and failure reason.",
		}, []string{"provider", "outcome", "reason"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a single upstream request.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		droppedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_dropped_total",
			Help:      "Upstream records dropped during normalization (missing fields or duplicate id).",
		}, []string{"provider"}),
		coalescedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coalesced_total",
			Help:      "FetchNews calls served by a shared upstream request.",
		}),
	}

	reg.MustRegister(m.fetchTotal, m.fetchDuration, m.droppedTotal, m.coalescedTotal)

	return m
}

func (m *Metrics) ObserveResult(provider, outcome, reason string) {
	m.fetchTotal.WithLabelValues(provider, outcome, reason).Inc()
}

func (m *Metrics) ObserveUpstream(provider string, d time.Duration) {
	m.fetchDuration.WithLabelValues(provider).Observe(d.Seconds())
}

func (m *Metrics) AddDropped(provider string, n int) {
	if n <= 0 {
		return
	}
	m.droppedTotal.WithLabelValues(provider).Add(float64(n))
}

func (m *Metrics) IncCoalesced() {
	m.coalescedTotal.Inc()
}

// HTTPRequests: счётчик ответов HTTP-слоя (для middleware.Metrics).
type HTTPRequests struct {
	total *prometheus.CounterVec
}

// NewHTTPRequests регистрирует news_facade_http_requests_total{route,status}.
func NewHTTPRequests(reg prometheus.Registerer) *HTTPRequests {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	h := &HTTPRequests{
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP responses by route pattern and status code.",
		}, []string{"route", "status"}),
	}
	reg.MustRegister(h.total)

	return h
}

// Observe учитывает один ответ.
func (h *HTTPRequests) Observe(route string, status int) {
	h.total.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
