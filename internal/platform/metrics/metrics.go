package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the pipeline.
type Metrics struct {
	RowsRead         prometheus.Counter
	RowsLoaded       prometheus.Counter
	RowsDropped      prometheus.Counter
	BatchesProcessed prometheus.Counter
	MissingValues    prometheus.Counter
	LoadDuration     prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RowsRead: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gmda_rows_read_total",
			Help: "Total source rows read from the raw extract.",
		}),
		RowsLoaded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gmda_fact_rows_loaded_total",
			Help: "Total fact rows appended to the warehouse.",
		}),
		RowsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gmda_fact_rows_dropped_total",
			Help: "Total fact rows dropped for unresolved dimension keys.",
		}),
		BatchesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gmda_batches_processed_total",
			Help: "Total row batches processed by the loader.",
		}),
		MissingValues: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gmda_missing_values_total",
			Help: "Total numeric cells stored as NULL during the fact load.",
		}),
		LoadDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gmda_load_duration_seconds",
			Help:    "Wall-clock duration of full warehouse loads.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
}
