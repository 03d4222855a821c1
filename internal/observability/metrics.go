// # internal/observability/metrics.go
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the instrument set for one process. Collectors live on
// a private registry so repeated construction (tests, watch restarts)
// never collides with the default registry. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	parseDuration    prometheus.Histogram
	analysisDuration prometheus.Histogram
	undefinedGauge   prometheus.Gauge
	unusedGauge      prometheus.Gauge
	cyclesGauge      prometheus.Gauge
	watcherEvents    prometheus.Counter
	runsTotal        prometheus.Counter
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		parseDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pyaudit_parse_seconds",
			Help:    "Time spent parsing a single source file.",
			Buckets: prometheus.DefBuckets,
		}),
		analysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pyaudit_analysis_seconds",
			Help:    "Wall time of a full analysis pass.",
			Buckets: prometheus.DefBuckets,
		}),
		undefinedGauge: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pyaudit_undefined_symbols",
			Help: "Undefined-symbol findings in the latest pass.",
		}),
		unusedGauge: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pyaudit_unused_symbols",
			Help: "Unused-symbol findings in the latest pass.",
		}),
		cyclesGauge: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pyaudit_import_cycles",
			Help: "Import cycles in the latest pass.",
		}),
		watcherEvents: factory.NewCounter(prometheus.CounterOpts{
			Name: "pyaudit_watcher_events_total",
			Help: "File system events received by the watcher.",
		}),
		runsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "pyaudit_runs_total",
			Help: "Completed analysis passes.",
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveParse(d time.Duration) {
	if m == nil {
		return
	}
	m.parseDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveAnalysis(d time.Duration) {
	if m == nil {
		return
	}
	m.analysisDuration.Observe(d.Seconds())
	m.runsTotal.Inc()
}

func (m *Metrics) SetFindings(undefined, unused, cycles int) {
	if m == nil {
		return
	}
	m.undefinedGauge.Set(float64(undefined))
	m.unusedGauge.Set(float64(unused))
	m.cyclesGauge.Set(float64(cycles))
}

func (m *Metrics) IncWatcherEvent() {
	if m == nil {
		return
	}
	m.watcherEvents.Inc()
}
