package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/jackyeh168/voucher_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/voucher_ledger/src/internal/domain/voucher"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "voucher"

// Metrics Prometheus 指標
//
// 使用獨立 registry，測試之間互不干擾。
// 同時實作 shared.EventPublisher：由領域事件更新餘額與購買計數。
type Metrics struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	purchases        prometheus.Counter
	purchasedYen     prometheus.Counter
	purchaseFailures *prometheus.CounterVec
	deletions        prometheus.Counter
	balance          prometheus.Gauge
}

var _ shared.EventPublisher = (*Metrics)(nil)

// New 建立並註冊所有指標
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency by method and route",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		purchases: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_total",
			Help:      "Purchases recorded against the voucher",
		}),
		purchasedYen: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchased_yen_total",
			Help:      "Sum of recorded purchase prices in yen",
		}),
		purchaseFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "purchase_failures_total",
				Help:      "Rejected purchase attempts by error code",
			},
			[]string{"code"},
		),
		deletions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchase_deletions_total",
			Help:      "Purchases removed by the administrator",
		}),
		balance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "balance_yen",
			Help:      "Last known voucher balance in yen",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.purchases,
		m.purchasedYen,
		m.purchaseFailures,
		m.deletions,
		m.balance,
	)
	return m
}

// Registry 指標 registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler /metrics 端點
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTP 記錄一次 HTTP 請求
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// PurchaseRejected 記錄被拒絕的購買
func (m *Metrics) PurchaseRejected(code string) {
	if code == "" {
		code = "unknown"
	}
	m.purchaseFailures.WithLabelValues(code).Inc()
}

// SetBalance 更新餘額
func (m *Metrics) SetBalance(balance int64) {
	m.balance.Set(float64(balance))
}

// Publish 依事件類型更新指標
func (m *Metrics) Publish(ctx context.Context, event shared.DomainEvent) error {
	payload := event.Payload()
	switch event.EventType() {
	case voucher.EventBalanceDeducted:
		m.purchases.Inc()
		if amount, ok := payload["amount"].(int64); ok {
			m.purchasedYen.Add(float64(amount))
		}
		m.setBalanceFrom(payload, "after")
	case voucher.EventBalanceReset:
		m.setBalanceFrom(payload, "after")
	case voucher.EventSettingsReplaced:
		m.setBalanceFrom(payload, "balance")
	case voucher.EventPurchaseDeleted:
		m.deletions.Inc()
	}
	return nil
}

// PublishBatch 依序處理事件
func (m *Metrics) PublishBatch(ctx context.Context, events []shared.DomainEvent) error {
	for _, event := range events {
		_ = m.Publish(ctx, event)
	}
	return nil
}

func (m *Metrics) setBalanceFrom(payload map[string]any, key string) {
	if v, ok := payload[key].(int64); ok {
		m.SetBalance(v)
	}
}
