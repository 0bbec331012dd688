package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveResult("newsapi", "success", "none")
	m.ObserveResult("newsapi", "fallback", "status")
	m.ObserveResult("newsapi", "fallback", "status")
	m.AddDropped("newsapi", 3)
	m.AddDropped("newsapi", 0)
	m.IncCoalesced()
	m.IncCoalesced()

	require.InDelta(t, 1, testutil.ToFloat64(m.fetchTotal.WithLabelValues("newsapi", "success", "none")), 0)
	require.InDelta(t, 2, testutil.ToFloat64(m.fetchTotal.WithLabelValues("newsapi", "fallback", "status")), 0)
	require.InDelta(t, 3, testutil.ToFloat64(m.droppedTotal.WithLabelValues("newsapi")), 0)
	require.InDelta(t, 2, testutil.ToFloat64(m.coalescedTotal), 0)
}

func TestMetrics_Histogram(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveUpstream("newsdata", 120*time.Millisecond)
	m.ObserveUpstream("newsdata", 2*time.Second)

	require.Equal(t, 1, testutil.CollectAndCount(m.fetchDuration))

	expected := `
# HELP news_facade_coalesced_total FetchNews calls served by a shared upstream request.
# TYPE news_facade_coalesced_total counter
news_facade_coalesced_total 0
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "news_facade_coalesced_total"))
}

func TestMetrics_DoubleRegisterPanics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_ = New(reg)

	require.Panics(t, func() { _ = New(reg) })
}

func TestHTTPRequests(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	h := NewHTTPRequests(reg)

	h.Observe("/news", 200)
	h.Observe("/news", 200)
	h.Observe("/news/search", 400)

	require.InDelta(t, 2, testutil.ToFloat64(h.total.WithLabelValues("/news", "200")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(h.total.WithLabelValues("/news/search", "400")), 0)
}
