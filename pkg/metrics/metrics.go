// Package metrics defines the Prometheus metric collectors exposed by
// index_builder and search_cli, and an HTTP handler for scraping them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every Prometheus collector this repo registers.
type Metrics struct {
	DocsIndexedTotal     prometheus.Counter
	TermsIndexedTotal    prometheus.Counter
	PostingsWrittenTotal prometheus.Counter
	BuildDuration        prometheus.Histogram

	QueriesTotal       *prometheus.CounterVec
	QueryLatency       prometheus.Histogram
	QueryResultCount   prometheus.Histogram
	CacheHitsTotal     prometheus.Counter
	CacheMissesTotal   prometheus.Counter
	LexiconSearchDepth prometheus.Histogram
}

// New creates and registers every collector.
func New() *Metrics {
	m := &Metrics{
		DocsIndexedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sidx_docs_indexed_total",
			Help: "Total documents processed by the index builder.",
		}),
		TermsIndexedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sidx_terms_indexed_total",
			Help: "Total unique terms written to the lexicon.",
		}),
		PostingsWrittenTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sidx_postings_written_total",
			Help: "Total posting entries written to postings.bin.",
		}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sidx_build_duration_seconds",
			Help:    "Wall-clock duration of one index build run.",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}),
		QueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sidx_queries_total",
			Help: "Total evaluated queries by result class (hit, zero, error).",
		}, []string{"result_class"}),
		QueryLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sidx_query_latency_seconds",
			Help:    "Query lex+parse+evaluate latency in seconds.",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		QueryResultCount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sidx_query_result_count",
			Help:    "Number of matching documents per evaluated query.",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 1000},
		}),
		CacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sidx_query_cache_hits_total",
			Help: "Total query-result cache hits.",
		}),
		CacheMissesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sidx_query_cache_misses_total",
			Help: "Total query-result cache misses.",
		}),
		LexiconSearchDepth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sidx_lexicon_search_depth",
			Help:    "Number of probes a lexicon binary search took to resolve one term.",
			Buckets: []float64{1, 2, 4, 8, 16, 24, 32},
		}),
	}

	prometheus.MustRegister(
		m.DocsIndexedTotal,
		m.TermsIndexedTotal,
		m.PostingsWrittenTotal,
		m.BuildDuration,
		m.QueriesTotal,
		m.QueryLatency,
		m.QueryResultCount,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.LexiconSearchDepth,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
