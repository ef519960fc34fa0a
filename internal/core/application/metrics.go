package application

import "github.com/prometheus/client_golang/prometheus"

var (
	executedIntervalsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recurra_order_intervals_executed_total",
		Help: "Number of order intervals successfully executed.",
	})
	// swallowedFailuresCounter tracks per-order failures that batch upkeep
	// deliberately swallows, so operators can spot a systematically broken
	// order instead of it retrying forever.
	swallowedFailuresCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recurra_upkeep_swallowed_failures_total",
		Help: "Number of per-order failures swallowed by batch upkeep.",
	})
	initiatedSwapsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recurra_crosschain_swaps_initiated_total",
		Help: "Number of cross-chain swaps initiated.",
	})
)

func init() {
	prometheus.MustRegister(
		executedIntervalsCounter,
		swallowedFailuresCounter,
		initiatedSwapsCounter,
	)
}
