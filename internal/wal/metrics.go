package wal

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/backbone81/record-log/internal/segment"
)

var (
	AddRecordDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wal_add_record_duration_seconds",
			Help:    "Duration of adding a record including all flushes in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 2, 20),
		},
	)

	WriterRewindTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wal_writer_rewind_total",
			Help: "Total number of failed records which were removed from the end of the log file again.",
		},
	)

	WriterFailureTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wal_writer_failure_total",
			Help: "Total number of writers which became unusable because a failed record could not be removed.",
		},
	)
)

// RegisterMetrics registers the writer and segment metrics collectors with the given prometheus registerer.
func RegisterMetrics(registerer prometheus.Registerer) error {
	metrics := []prometheus.Collector{
		AddRecordDuration,
		WriterRewindTotal,
		WriterFailureTotal,
	}
	for _, metric := range metrics {
		if err := registerer.Register(metric); err != nil {
			return err
		}
	}
	return segment.RegisterMetrics(registerer)
}
