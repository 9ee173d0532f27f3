package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics tracks the core custody and reward activity of the node.
type LedgerMetrics struct {
	MaterialsSubmitted prometheus.Counter
	MaterialsVerified  prometheus.Counter
	Transfers          prometheus.Counter
	Distributions      prometheus.Counter
	RewardsPaid        prometheus.Counter
}

// RPCMetrics tracks JSON-RPC handler activity segmented by method and outcome.
type RPCMetrics struct {
	Requests *prometheus.CounterVec
}

var (
	ledgerOnce sync.Once
	ledgerReg  *LedgerMetrics

	rpcOnce sync.Once
	rpcReg  *RPCMetrics
)

// Ledger returns the lazily-initialised ledger metrics registry.
func Ledger() *LedgerMetrics {
	ledgerOnce.Do(func() {
		ledgerReg = &LedgerMetrics{
			MaterialsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "recycle",
				Subsystem: "ledger",
				Name:      "materials_submitted_total",
				Help:      "Total material records accepted by the ledger.",
			}),
			MaterialsVerified: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "recycle",
				Subsystem: "ledger",
				Name:      "materials_verified_total",
				Help:      "Total materials marked verified.",
			}),
			Transfers: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "recycle",
				Subsystem: "ledger",
				Name:      "transfers_total",
				Help:      "Total custody transfers recorded.",
			}),
			Distributions: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "recycle",
				Subsystem: "rewards",
				Name:      "distributions_total",
				Help:      "Total successful reward distributions.",
			}),
			RewardsPaid: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "recycle",
				Subsystem: "rewards",
				Name:      "paid_total",
				Help:      "Cumulative reward tokens paid out.",
			}),
		}
		prometheus.MustRegister(
			ledgerReg.MaterialsSubmitted,
			ledgerReg.MaterialsVerified,
			ledgerReg.Transfers,
			ledgerReg.Distributions,
			ledgerReg.RewardsPaid,
		)
	})
	return ledgerReg
}

// RPC returns the lazily-initialised JSON-RPC metrics registry.
func RPC() *RPCMetrics {
	rpcOnce.Do(func() {
		rpcReg = &RPCMetrics{
			Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "recycle",
				Subsystem: "rpc",
				Name:      "requests_total",
				Help:      "Total JSON-RPC requests segmented by method and outcome.",
			}, []string{"method", "outcome"}),
		}
		prometheus.MustRegister(rpcReg.Requests)
	})
	return rpcReg
}
