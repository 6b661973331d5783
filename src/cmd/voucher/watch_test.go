package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appvoucher "github.com/jackyeh168/voucher_ledger/src/internal/application/voucher"
)

func TestGroupThousands(t *testing.T) {
	tests := map[int64]string{
		0:       "0",
		999:     "999",
		1000:    "1,000",
		10000:   "10,000",
		1234567: "1,234,567",
		-9500:   "-9,500",
	}
	for in, want := range tests {
		assert.Equal(t, want, groupThousands(in))
	}
}

func TestRenderSnapshot(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	expire := time.Date(2025, 6, 17, 15, 0, 0, 0, time.UTC)
	days := 3

	t.Run("not configured", func(t *testing.T) {
		out := renderSnapshot(&appvoucher.Snapshot{}, jst, 5)

		assert.Equal(t, "voucher not configured\n", out)
	})

	t.Run("balance with expiry and limited ledger", func(t *testing.T) {
		snap := &appvoucher.Snapshot{
			Settings: appvoucher.SettingsView{Configured: true, Balance: 9500, ExpireAt: &expire, DaysLeft: &days},
			Purchases: []appvoucher.PurchaseView{
				{Item: "パン", Price: 500, Date: "2025-06-15", Note: "朝食"},
				{Item: "牛乳", Price: 250, Date: "2025-06-14"},
			},
		}

		out := renderSnapshot(snap, jst, 1)

		assert.Contains(t, out, "balance: 9,500 yen, expires 2025-06-18 00:00 (3 days left), 2 purchases")
		assert.Contains(t, out, "パン")
		assert.Contains(t, out, "朝食")
		assert.NotContains(t, out, "牛乳")
	})

	t.Run("expired", func(t *testing.T) {
		snap := &appvoucher.Snapshot{
			Settings: appvoucher.SettingsView{Configured: true, Balance: 100, ExpireAt: &expire, Expired: true},
		}

		out := renderSnapshot(snap, jst, 5)

		assert.Contains(t, out, "expired 2025-06-18 00:00")
	})
}
