package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Registry = prometheus.NewRegistry()

	SendsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gossipgrid",
			Name:      "sends_total",
			Help:      "Outbound message attempts by message type and result.",
		},
		[]string{"type", "result"},
	)

	PayloadsDeliveredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gossipgrid",
			Name:      "payloads_delivered_total",
			Help:      "Gossip payloads accepted and handed to the output sink.",
		},
	)

	EvictionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gossipgrid",
			Name:      "evictions_total",
			Help:      "Peers evicted after a quorum of suspicion reports.",
		},
	)

	DroppedPayloadsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gossipgrid",
			Name:      "dropped_payloads_total",
			Help:      "Inbound connections dropped because their payload did not decode.",
		},
	)

	KnownPeers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "gossipgrid",
			Name:      "known_peers",
			Help:      "Current number of membership entries.",
		},
	)

	startTime = time.Now()
	uptime    = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "gossipgrid",
			Name:      "uptime_seconds",
			Help:      "Process uptime in seconds.",
		},
		func() float64 { return time.Since(startTime).Seconds() },
	)
)

func init() {
	Registry.MustRegister(SendsTotal, PayloadsDeliveredTotal, EvictionsTotal, DroppedPayloadsTotal, KnownPeers, uptime)
}

// MetricsHandler exposes the registry. Mount it with
// mux.Handle("/metrics", telemetry.MetricsHandler()).
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
