package subscription

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "stocksentry"

var (
	tokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tokens",
			Name:      "issued_total",
			Help:      "Total access tokens issued",
		},
	)

	tokensClaimed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tokens",
			Name:      "claimed_total",
			Help:      "Total access tokens claimed",
		},
	)

	tokensSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tokens",
			Name:      "swept_total",
			Help:      "Total expired tokens removed by the sweep job",
		},
	)
)

func recordTokenIssued() {
	tokensIssued.Inc()
}

func recordTokenClaimed() {
	tokensClaimed.Inc()
}

func recordTokensSwept(count int64) {
	tokensSwept.Add(float64(count))
}
