// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tricount"

// Metrics groups RPC and ledger collectors.
type Metrics struct {
	// RPCs counts finished RPCs by procedure and Connect code ("ok" on success).
	RPCs *prometheus.CounterVec

	// RPCDuration observes RPC latency in seconds by procedure.
	RPCDuration *prometheus.HistogramVec

	// Sessions counts created sessions.
	Sessions prometheus.Counter

	// Participants counts participants added across all sessions.
	Participants prometheus.Counter

	// Expenses counts accepted expenses.
	Expenses prometheus.Counter

	// RejectedExpenses counts expenses refused as invalid input, by reason.
	RejectedExpenses *prometheus.CounterVec

	// SettlementTransfers observes how many transfers a settlement needed.
	SettlementTransfers prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RPCs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "Finished RPCs by procedure and result code.",
		}, []string{"procedure", "code"}),

		RPCDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),

		Sessions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Sessions created.",
		}),

		Participants: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "participants_added_total",
			Help:      "Participants added across all sessions.",
		}),

		Expenses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_added_total",
			Help:      "Expenses accepted into a ledger.",
		}),

		RejectedExpenses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_rejected_total",
			Help:      "Expenses refused as invalid input, by reason.",
		}, []string{"reason"}),

		SettlementTransfers: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "settlement_transfers",
			Help:      "Transfers needed to settle a session.",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
	}
}
