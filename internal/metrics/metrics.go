package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "creditledger"

// Approval outcomes.
const (
	OutcomeApproved               = "approved"
	OutcomeAlreadyOnLedger        = "already_on_ledger"
	OutcomeRejectedByLedger       = "rejected_by_ledger"
	OutcomeRetryable              = "retryable"
	OutcomeConflict               = "conflict"
	OutcomeReconciliationRequired = "reconciliation_required"
	OutcomeFailed                 = "failed"
)

var (
	Approvals = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "approvals_total", Help: "Approval attempts by outcome",
	}, []string{"outcome"})
	Rejections = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "rejections_total", Help: "Credit requests rejected",
	})
	ApprovalDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "approval_duration_seconds", Help: "Approval latency including ledger confirmation",
		Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	})
	LedgerCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "ledger_calls_total", Help: "Calls to the ledger gateway",
	}, []string{"op", "result"})
	Reconciliations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "reconciliations_total", Help: "Reconciliation attempts by result",
	}, []string{"result"})
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests by route and status",
	}, []string{"method", "route", "status"})
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(Approvals, Rejections, ApprovalDuration, LedgerCalls, Reconciliations, HTTPRequests, HTTPDuration, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveApproval(outcome string, d time.Duration) {
	Approvals.WithLabelValues(outcome).Inc()
	ApprovalDuration.Observe(d.Seconds())
}

func ObserveLedgerCall(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	LedgerCalls.WithLabelValues(op, result).Inc()
}

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

// GinMiddleware records request counts and latency per matched route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
