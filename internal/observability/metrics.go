package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// export pipeline.
type Metrics struct {
	RecordsIngested  *prometheus.CounterVec // labels: source
	RowsSkipped      *prometheus.CounterVec // labels: source
	SourcesFailed    prometheus.Counter
	RecordsExported  *prometheus.CounterVec // labels: schema
	RecordsDropped   prometheus.Counter     // dedupe collisions and band filtering
	FrequencyRepairs prometheus.Counter
	GridGeocodeFills prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// POTA API metrics.
	POTARequests    *prometheus.CounterVec // labels: endpoint, outcome={success,error}
	POTARetries     prometheus.Counter
	POTAAPIDuration *prometheus.HistogramVec // labels: endpoint
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RecordsIngested,
		m.RowsSkipped,
		m.SourcesFailed,
		m.RecordsExported,
		m.RecordsDropped,
		m.FrequencyRepairs,
		m.GridGeocodeFills,
		m.PipelineRunning,
		m.POTARequests,
		m.POTARetries,
		m.POTAAPIDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without touching the default
// registry, avoiding "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "channel_etl",
			Name:      "records_ingested_total",
			Help:      "Canonical records produced per ingestion source.",
		}, []string{"source"}),
		RowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "channel_etl",
			Name:      "rows_skipped_total",
			Help:      "Source rows dropped because they failed to parse.",
		}, []string{"source"}),
		SourcesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "channel_etl",
			Name:      "sources_failed_total",
			Help:      "Sources that contributed zero records due to read failure.",
		}),
		RecordsExported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "channel_etl",
			Name:      "records_exported_total",
			Help:      "Rows written per export schema.",
		}, []string{"schema"}),
		RecordsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "channel_etl",
			Name:      "records_dropped_total",
			Help:      "Records removed by deduplication, ranking limits, or band filtering.",
		}),
		FrequencyRepairs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "channel_etl",
			Name:      "frequency_repairs_total",
			Help:      "Frequencies changed by the band-plan repair heuristic.",
		}),
		GridGeocodeFills: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "channel_etl",
			Name:      "grid_geocode_fills_total",
			Help:      "Coordinates derived from a Maidenhead locator.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "channel_etl",
			Name:      "pipeline_running",
			Help:      "1 while a batch run is active, 0 otherwise.",
		}),
		POTARequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "channel_etl",
			Name:      "pota_requests_total",
			Help:      "POTA API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		POTARetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "channel_etl",
			Name:      "pota_retries_total",
			Help:      "POTA API requests retried after transient failure.",
		}),
		POTAAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "channel_etl",
			Name:      "pota_api_duration_seconds",
			Help:      "POTA API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),
	}
}
