package notify

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "stocksentry"

var (
	alertsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "alerts_total",
			Help:      "Total restock alerts processed by status",
		},
		[]string{"status"},
	)

	sendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "send_duration_seconds",
			Help:      "Time to deliver one alert",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)
)

func recordAlertSent(status string) {
	alertsSent.WithLabelValues(status).Inc()
}

func recordSendDuration(duration time.Duration) {
	sendDuration.Observe(duration.Seconds())
}
