package segment

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	AddRecordTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wal_add_record_total",
			Help: "Total number of records added.",
		},
	)

	AddRecordBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wal_add_record_bytes_total",
			Help: "Total number of record payload bytes added.",
		},
	)

	FragmentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wal_fragment_total",
			Help: "Total number of fragments written, partitioned by record type.",
		},
		[]string{"type"},
	)

	FragmentFailureTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wal_fragment_failure_total",
			Help: "Total number of fragments which could not be written or flushed.",
		},
	)

	TrailerBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wal_trailer_bytes_total",
			Help: "Total number of zero bytes written to fill up the end of blocks.",
		},
	)

	ReadRecordTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wal_read_record_total",
			Help: "Total number of records read.",
		},
	)

	ReadRecordBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wal_read_record_bytes_total",
			Help: "Total number of record payload bytes read.",
		},
	)

	DroppedBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wal_dropped_bytes_total",
			Help: "Total number of payload bytes dropped while reading because they belong to incomplete records.",
		},
	)
)

// RegisterMetrics registers all metrics collectors with the given prometheus registerer.
func RegisterMetrics(registerer prometheus.Registerer) error {
	metrics := []prometheus.Collector{
		AddRecordTotal,
		AddRecordBytes,
		FragmentTotal,
		FragmentFailureTotal,
		TrailerBytes,
		ReadRecordTotal,
		ReadRecordBytes,
		DroppedBytes,
	}
	for _, metric := range metrics {
		if err := registerer.Register(metric); err != nil {
			return err
		}
	}
	return nil
}
