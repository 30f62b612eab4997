package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the gateway.
type Metrics struct {
	ClaimsSubmitted  prometheus.Counter
	ClaimsAborted    *prometheus.CounterVec
	SettlementsPaid  prometheus.Counter
	DedupHits        prometheus.Counter
	TransferFailures prometheus.Counter
	RequestDuration  *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ClaimsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zkdrop_claims_submitted_total",
			Help: "Total number of claims that passed validation and emitted a settlement message",
		}),
		ClaimsAborted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zkdrop_claims_aborted_total",
			Help: "Total number of claims aborted during submission, by fault code",
		}, []string{"reason"}),
		SettlementsPaid: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zkdrop_settlements_paid_total",
			Help: "Total number of settlements that completed a treasury transfer",
		}),
		DedupHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zkdrop_settlement_dedup_hits_total",
			Help: "Total number of settlement messages rejected because the claimant was already paid",
		}),
		TransferFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zkdrop_settlement_transfer_failures_total",
			Help: "Total number of settlements aborted by a failed treasury transfer",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zkdrop_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status code",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}
