package relay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connectedViewers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "monitor_connected_viewers",
		Help: "Number of monitor viewers currently connected",
	})

	broadcastsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monitor_broadcasts_total",
		Help: "Relay broadcasts by event",
	}, []string{"event"})
)
