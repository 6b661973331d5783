package voucher_test

import (
	"testing"
	"time"

	"github.com/jackyeh168/voucher_ledger/src/internal/domain/voucher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func at(t time.Time) *time.Time { return &t }

// ===========================
// IsExpired
// ===========================

func TestIsExpired(t *testing.T) {
	tests := []struct {
		name     string
		expireAt *time.Time
		want     bool
	}{
		{"未設定到期日永不過期", nil, false},
		{"一秒前已過期", at(baseNow.Add(-time.Second)), true},
		{"昨天已過期", at(baseNow.AddDate(0, 0, -1)), true},
		{"去年已過期", at(baseNow.AddDate(-1, 0, 0)), true},
		{"到期當下尚未過期", at(baseNow), false},
		{"一秒後未過期", at(baseNow.Add(time.Second)), false},
		{"明年未過期", at(baseNow.AddDate(1, 0, 0)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, voucher.IsExpired(tt.expireAt, baseNow))
		})
	}
}

func TestIsExpired_IgnoresTimeZoneRepresentation(t *testing.T) {
	// Arrange: 同一時間點，不同時區表示
	tokyo := time.FixedZone("JST", 9*60*60)
	expire := baseNow.Add(-time.Minute).In(tokyo)

	// Act & Assert
	assert.True(t, voucher.IsExpired(&expire, baseNow))
}

// ===========================
// DaysUntilExpiry
// ===========================

func TestDaysUntilExpiry_Absent_ReturnsNil(t *testing.T) {
	assert.Nil(t, voucher.DaysUntilExpiry(nil, baseNow))
}

func TestDaysUntilExpiry(t *testing.T) {
	tests := []struct {
		name     string
		expireAt time.Time
		want     int
	}{
		{"剛好三天", baseNow.Add(72 * time.Hour), 3},
		{"兩天又一小時進位為三天", baseNow.Add(49 * time.Hour), 3},
		{"一秒後為一天", baseNow.Add(time.Second), 1},
		{"到期當下為零", baseNow, 0},
		{"一小時前為零", baseNow.Add(-time.Hour), 0},
		{"剛好一天前為負一", baseNow.Add(-24 * time.Hour), -1},
		{"一天半前為負一", baseNow.Add(-36 * time.Hour), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			got := voucher.DaysUntilExpiry(&tt.expireAt, baseNow)

			// Assert
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestDaysUntilExpiry_OneDayPast_IsNonPositive(t *testing.T) {
	expire := baseNow.AddDate(0, 0, -1)

	got := voucher.DaysUntilExpiry(&expire, baseNow)

	require.NotNil(t, got)
	assert.LessOrEqual(t, *got, 0)
}
