package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dispatchOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_requests_total",
		Help: "Dispatch requests by category and final status",
	}, []string{"tipo", "status"})

	dispatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dispatch_request_duration_seconds",
		Help:    "End-to-end dispatch duration, from staging to reconciliation",
		Buckets: prometheus.DefBuckets,
	}, []string{"tipo"})
)
