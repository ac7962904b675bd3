package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DispatchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_attempts_total",
			Help: "Total number of dispatch attempts by trigger reason and outcome",
		},
		[]string{"reason", "outcome"},
	)

	DuplicateOffersExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_duplicate_offers_expired_total",
			Help: "Pending offers expired by the hard-dedup reconciliation branch",
		},
	)

	OffersReleasedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_offers_released_total",
			Help: "Pending offers cancelled because their order was closed",
		},
	)
)
