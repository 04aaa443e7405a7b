package validator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	validateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "product_config_validate_duration_seconds",
			Help:    "Duration of a single Validate call in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	validateOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_config_validate_outcomes_total",
			Help: "Total number of per-property outcomes produced, by status",
		},
		[]string{"status"},
	)
)
