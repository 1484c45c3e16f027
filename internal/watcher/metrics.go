package watcher

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "stocksentry"

var (
	watchCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watcher",
			Name:      "cycles_total",
			Help:      "Total watch cycles by result",
		},
		[]string{"result"},
	)

	watchCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "watcher",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of one watch cycle",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	snapshotSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "watcher",
			Name:      "snapshot_products",
			Help:      "Number of products in the last stored snapshot",
		},
	)

	newlyAvailableTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watcher",
			Name:      "newly_available_total",
			Help:      "Total products detected as newly available",
		},
	)
)

func recordCycle(result string, duration time.Duration) {
	watchCycles.WithLabelValues(result).Inc()
	watchCycleDuration.Observe(duration.Seconds())
}

func recordSnapshotSize(count int) {
	snapshotSize.Set(float64(count))
}

func recordNewlyAvailable(count int) {
	newlyAvailableTotal.Add(float64(count))
}
