package webhook

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	webhookAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_webhook_attempts_total",
		Help: "Outbound webhook attempts by outcome",
	}, []string{"outcome"})

	webhookDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dispatch_webhook_attempt_duration_seconds",
		Help:    "Duration of a single outbound webhook attempt",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
	})
)
