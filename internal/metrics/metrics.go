package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "regrid_http_requests_total",
		Help: "Total HTTP requests by route and status",
	}, []string{"route", "status"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "regrid_http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	}, []string{"route"})
	RemapsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "regrid_remaps_total",
		Help: "Total remap operations by method and outcome",
	}, []string{"method", "outcome"})
	RemapDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "regrid_remap_duration_ms",
		Help:    "Remap duration in milliseconds, index build included",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	}, []string{"method"})
	IndexBuildsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "regrid_index_builds_total",
		Help: "Total spatial indexes built",
	})
	IndexCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "regrid_index_cache_hits_total",
		Help: "Total spatial index cache hits",
	})
	ResultCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "regrid_result_cache_hits_total",
		Help: "Total redis result cache hits",
	})
	ResultCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "regrid_result_cache_misses_total",
		Help: "Total redis result cache misses",
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(RemapsTotal)
	prometheus.MustRegister(RemapDurationMs)
	prometheus.MustRegister(IndexBuildsTotal)
	prometheus.MustRegister(IndexCacheHitsTotal)
	prometheus.MustRegister(ResultCacheHitsTotal)
	prometheus.MustRegister(ResultCacheMissesTotal)
}

// Handler exposes the registered collectors for scraping.
func Handler() http.Handler { return promhttp.Handler() }
