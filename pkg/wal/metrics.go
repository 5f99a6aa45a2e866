package wal

import (
	"github.com/prometheus/client_golang/prometheus"

	intwal "github.com/backbone81/record-log/internal/wal"
)

// RegisterMetrics registers all metrics collectors with the given prometheus registerer.
func RegisterMetrics(registerer prometheus.Registerer) error {
	return intwal.RegisterMetrics(registerer)
}
