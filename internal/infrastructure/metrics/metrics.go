package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/iho/bankchat/internal/domain"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Store metrics
	StoreOperations    *prometheus.CounterVec
	TransactionAmount  *prometheus.HistogramVec
	AccountsRegistered prometheus.Counter
	ActiveSession      prometheus.Gauge

	// Chat metrics
	ChatTurns        *prometheus.CounterVec
	ChatTurnDuration prometheus.Histogram

	// Persistence metrics
	SnapshotSaves *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates all metrics and registers them with reg.
// A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		StoreOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankchat_store_operations_total",
				Help: "Total account store operations by outcome",
			},
			[]string{"operation", "status"},
		),
		TransactionAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankchat_transaction_amount",
				Help:    "Amounts of committed transactions",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"type"},
		),
		AccountsRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankchat_accounts_registered_total",
			Help: "Total number of accounts registered",
		}),
		ActiveSession: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bankchat_active_session",
			Help: "1 while an account is logged in",
		}),

		ChatTurns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankchat_chat_turns_total",
				Help: "Total chat turns by resolved intent",
			},
			[]string{"intent"},
		),
		ChatTurnDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bankchat_chat_turn_duration_seconds",
			Help:    "Time from dequeuing a chat turn to its reply, delay included",
			Buckets: prometheus.DefBuckets,
		}),

		SnapshotSaves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankchat_snapshot_saves_total",
				Help: "Total snapshot writes by outcome",
			},
			[]string{"status"},
		),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankchat_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordOperation counts a store operation by outcome.
func (m *Metrics) RecordOperation(operation string, err error) {
	m.StoreOperations.WithLabelValues(operation, status(err)).Inc()
}

// RecordTransaction observes a committed amount.
func (m *Metrics) RecordTransaction(txType domain.TransactionType, amount decimal.Decimal) {
	m.TransactionAmount.WithLabelValues(string(txType)).Observe(amount.InexactFloat64())
}

// RecordRegistration counts a new account.
func (m *Metrics) RecordRegistration() {
	m.AccountsRegistered.Inc()
}

// SetSessionActive tracks whether someone is logged in.
func (m *Metrics) SetSessionActive(active bool) {
	if active {
		m.ActiveSession.Set(1)
		return
	}
	m.ActiveSession.Set(0)
}

// RecordChatTurn counts a chat turn and its latency.
func (m *Metrics) RecordChatTurn(intent string, duration time.Duration) {
	m.ChatTurns.WithLabelValues(intent).Inc()
	m.ChatTurnDuration.Observe(duration.Seconds())
}

// RecordSnapshotSave counts a snapshot write by outcome.
func (m *Metrics) RecordSnapshotSave(err error) {
	m.SnapshotSaves.WithLabelValues(status(err)).Inc()
}
