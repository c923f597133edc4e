package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// 操作名 (operation ラベル)
const (
	OpIssueMagicLink = "issue_magic_link"
	OpRequestReset   = "request_reset"
	OpVerifyToken    = "verify_token"
	OpLogin          = "login"
	OpSetPassword    = "set_password"
	OpVerifySession  = "verify_session"
)

// 結果 (outcome ラベル)
const (
	OutcomeSuccess       = "success"
	OutcomeNeedsPassword = "needs_password"
	OutcomeSuppressed    = "suppressed" // 列挙対策で何もせず成功を返した
	OutcomeRateLimited   = "rate_limited"
	OutcomeRejected      = "rejected"
	OutcomeError         = "error"
)

// Metrics は認証操作のカウンタとレイテンシ。nil のままでも呼び出せる。
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "corporate_auth",
			Name:      "operations_total",
			Help:      "Authentication operations by outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "corporate_auth",
			Name:      "operation_duration_seconds",
			Help:      "Latency of authentication operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg != nil {
		reg.MustRegister(m.operations, m.duration)
	}
	return m
}

func (m *Metrics) observe(operation, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// outcomeOf はエラーから outcome ラベルを決める
func outcomeOf(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	if isInternal(err) {
		return OutcomeError
	}
	return OutcomeRejected
}
