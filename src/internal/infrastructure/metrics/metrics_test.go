package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackyeh168/voucher_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/voucher_ledger/src/internal/domain/voucher"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yen(t *testing.T, v int64) voucher.Yen {
	t.Helper()
	y, err := voucher.NewYen(v)
	require.NoError(t, err)
	return y
}

func TestMetrics_PublishBatch_UpdatesFromDomainEvents(t *testing.T) {
	// Arrange
	m := New()
	at := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	events := []shared.DomainEvent{
		voucher.NewBalanceDeductedEvent(yen(t, 500), yen(t, 10000), yen(t, 9500), at),
		voucher.NewPurchaseDeletedEvent(voucher.NewPurchaseID(), at),
	}

	// Act
	err := m.PublishBatch(context.Background(), events)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.purchases))
	assert.Equal(t, float64(500), testutil.ToFloat64(m.purchasedYen))
	assert.Equal(t, float64(9500), testutil.ToFloat64(m.balance))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.deletions))
}

func TestMetrics_BalanceReset_SetsGauge(t *testing.T) {
	m := New()

	_ = m.Publish(context.Background(),
		voucher.NewBalanceResetEvent(yen(t, 1200), yen(t, 10000), time.Now()))

	assert.Equal(t, float64(10000), testutil.ToFloat64(m.balance))
}

func TestMetrics_ObserveHTTPAndRejections(t *testing.T) {
	m := New()

	m.ObserveHTTP("POST", "/api/purchases", 422, 15*time.Millisecond)
	m.ObserveHTTP("GET", "", 404, time.Millisecond)
	m.PurchaseRejected("INSUFFICIENT_BALANCE")
	m.PurchaseRejected("")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/purchases", "422")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.purchaseFailures.WithLabelValues("INSUFFICIENT_BALANCE")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.purchaseFailures.WithLabelValues("unknown")))
}

func TestMetrics_Handler_ExposesRegistry(t *testing.T) {
	m := New()
	m.SetBalance(42)
	rec := httptest.NewRecorder()

	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), "voucher_balance_yen 42")
}
