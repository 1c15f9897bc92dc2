package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PoolConnected = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "netcore",
		Name:      "pool_connected",
		Help:      "1 if a pool connection is active.",
	})

	JobDifficulty = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "netcore",
		Name:      "job_difficulty",
		Help:      "Difficulty of the current job.",
	})

	SharesAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "netcore",
		Name:      "shares_accepted_total",
		Help:      "Total shares accepted by pools.",
	})

	SharesRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "netcore",
		Name:      "shares_rejected_total",
		Help:      "Total shares rejected by pools.",
	})

	SharesDifficulty = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "netcore",
		Name:      "shares_difficulty_total",
		Help:      "Sum of difficulties of accepted shares.",
	})

	SubmitLatency = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "netcore",
		Name:      "submit_latency_seconds",
		Help:      "Average round trip of share submissions.",
	})

	PoolSwitches = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "netcore",
		Name:      "pool_switches_total",
		Help:      "Number of times a pool became active.",
	})

	PoolDisconnects = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "netcore",
		Name:      "pool_disconnects_total",
		Help:      "Pool disconnects by reason.",
	}, []string{"reason"})

	UptimeSeconds = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "netcore",
		Name:      "uptime_seconds",
		Help:      "Time since the current pool became active.",
	})
)

func init() {
	prometheus.MustRegister(
		PoolConnected,
		JobDifficulty,
		SharesAccepted,
		SharesRejected,
		SharesDifficulty,
		SubmitLatency,
		PoolSwitches,
		PoolDisconnects,
		UptimeSeconds,
	)
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
