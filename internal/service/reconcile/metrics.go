package reconcile

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OffersExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reconcile_offers_expired_total",
			Help: "Pending offers expired by the reconciler tick",
		},
	)

	SweepOrdersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reconcile_sweep_orders_total",
			Help: "Orders picked up by the unattended-order sweep",
		},
	)
)
