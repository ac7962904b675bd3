package loadcount

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var CounterRefreshesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "loadcount_refreshes_total",
		Help: "Successful courier load counter recomputations",
	},
)
