package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the report pipeline.
type Metrics struct {
	RunsTotal       *prometheus.CounterVec // labels: outcome={success,error}
	RunDuration     prometheus.Histogram
	PipelineRunning prometheus.Gauge

	// Per-stage metrics.
	StageDuration       *prometheus.HistogramVec // labels: stage={locate,fetch_chemistry,fetch_levels,aggregate,render,export}
	SitesLocated        prometheus.Gauge
	ObservationsFetched *prometheus.CounterVec // labels: kind={chemistry,levels}
	RowsExcluded        *prometheus.CounterVec // labels: reason={unknown_site,missing_depth,...}

	// Export metrics.
	ObservationsExported prometheus.Counter
	ExportEnabled        prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gw_report",
			Name:      "runs_total",
			Help:      "Completed report runs by outcome.",
		}, []string{"outcome"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gw_report",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete locate-fetch-aggregate-render run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gw_report",
			Name:      "pipeline_running",
			Help:      "1 while a run is in progress, 0 between runs.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gw_report",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
		SitesLocated: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gw_report",
			Name:      "sites_located",
			Help:      "Site records returned by the last bounding-box lookup.",
		}),
		ObservationsFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gw_report",
			Name:      "observations_fetched_total",
			Help:      "Rows fetched from the remote services by kind.",
		}, []string{"kind"}),
		RowsExcluded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gw_report",
			Name:      "rows_excluded_total",
			Help:      "Rows dropped or carried with absent metadata, by data-quality reason.",
		}, []string{"reason"}),
		ObservationsExported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gw_report",
			Name:      "observations_exported_total",
			Help:      "Enriched observation rows written to the export topic.",
		}),
		ExportEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gw_report",
			Name:      "export_enabled",
			Help:      "1 when the Kafka export sink is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.PipelineRunning,
		m.StageDuration,
		m.SitesLocated,
		m.ObservationsFetched,
		m.RowsExcluded,
		m.ObservationsExported,
		m.ExportEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RunsTotal:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "gw_report", Name: "runs_total"}, []string{"outcome"}),
		RunDuration:          prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "gw_report", Name: "run_duration_seconds"}),
		PipelineRunning:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "gw_report", Name: "pipeline_running"}),
		StageDuration:        prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "gw_report", Name: "stage_duration_seconds"}, []string{"stage"}),
		SitesLocated:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "gw_report", Name: "sites_located"}),
		ObservationsFetched:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "gw_report", Name: "observations_fetched_total"}, []string{"kind"}),
		RowsExcluded:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "gw_report", Name: "rows_excluded_total"}, []string{"reason"}),
		ObservationsExported: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "gw_report", Name: "observations_exported_total"}),
		ExportEnabled:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "gw_report", Name: "export_enabled"}),
	}
}
