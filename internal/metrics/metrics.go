package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Collector interface {
	IncReportBuild(kind string)
	IncCacheHit()
	IncCacheMiss()
	IncProviderFailure(provider string)
	AddPrewarmProcessed(count int)
}

type PrometheusCollector struct {
	reportBuilds     *prometheus.CounterVec
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	providerFailures *prometheus.CounterVec
	prewarmProcessed prometheus.Counter
}

func NewCollector() Collector {
	return &PrometheusCollector{
		reportBuilds: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "yearreview_report_builds_total",
			Help: "Reports computed from source data (cache misses), by kind",
		}, []string{"kind"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "yearreview_cache_hits_total",
			Help: "Report cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "yearreview_cache_misses_total",
			Help: "Report cache misses",
		}),

		providerFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "yearreview_provider_failures_total",
			Help: "Activity provider calls degraded to zero values, by provider",
		}, []string{"provider"}),

		prewarmProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "yearreview_prewarm_processed_total",
			Help: "Members processed by the prewarm batch job",
		}),
	}
}

func (m *PrometheusCollector) IncReportBuild(kind string) {
	m.reportBuilds.WithLabelValues(kind).Inc()
}

func (m *PrometheusCollector) IncCacheHit() {
	m.cacheHits.Inc()
}

func (m *PrometheusCollector) IncCacheMiss() {
	m.cacheMisses.Inc()
}

func (m *PrometheusCollector) IncProviderFailure(provider string) {
	m.providerFailures.WithLabelValues(provider).Inc()
}

func (m *PrometheusCollector) AddPrewarmProcessed(count int) {
	m.prewarmProcessed.Add(float64(count))
}

// NewNoop is for wiring paths that do not report metrics, such as tests.
func NewNoop() Collector {
	return noop{}
}

type noop struct{}

func (noop) IncReportBuild(string)     {}
func (noop) IncCacheHit()              {}
func (noop) IncCacheMiss()             {}
func (noop) IncProviderFailure(string) {}
func (noop) AddPrewarmProcessed(int)   {}
