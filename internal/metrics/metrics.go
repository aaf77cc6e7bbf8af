package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// Ledger operations by outcome (success|rejected|conflict|error).
	LedgerOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_operations_total",
			Help: "Ledger operations by outcome",
		},
		[]string{"op", "outcome"},
	)

	ClaimedMills = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_claimed_mills_total",
			Help: "Total mills paid out by accrual claims",
		},
	)

	ReferralPayouts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_referral_payouts_total",
			Help: "Referral bonuses applied",
		},
	)

	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
)

// handler for the /metrics endpoint
var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(LedgerOps)
	prometheus.MustRegister(ClaimedMills)
	prometheus.MustRegister(ReferralPayouts)
	prometheus.MustRegister(WorkerQueueDepth)
}
