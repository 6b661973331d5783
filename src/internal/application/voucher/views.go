package voucher

import (
	"time"

	"github.com/jackyeh168/voucher_ledger/src/internal/domain/voucher"
)

// ===========================
// 讀取端 View
// ===========================

// SettingsView 目前餘額與有效期限
//
// Configured 為 false 時其餘欄位皆為零值。
// Expired / DaysLeft 以查詢當下的時鐘計算。
type SettingsView struct {
	Configured bool
	Balance    int64
	IssuedAt   time.Time
	ExpireAt   *time.Time
	Expired    bool
	DaysLeft   *int
	Year       int
	UpdatedAt  time.Time
}

// PurchaseView 購買記錄
type PurchaseView struct {
	ID        string
	Item      string
	Price     int64
	Date      string
	Note      string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func newSettingsView(s *voucher.Settings, now time.Time) *SettingsView {
	return &SettingsView{
		Configured: true,
		Balance:    s.Balance().Value(),
		IssuedAt:   s.IssuedAt(),
		ExpireAt:   s.ExpireAt(),
		Expired:    s.IsExpired(now),
		DaysLeft:   s.DaysUntilExpiry(now),
		Year:       s.Year(),
		UpdatedAt:  s.UpdatedAt(),
	}
}

func newPurchaseView(p *voucher.Purchase) PurchaseView {
	return PurchaseView{
		ID:        p.ID().String(),
		Item:      p.Item(),
		Price:     p.Price().Value(),
		Date:      p.Date().String(),
		Note:      p.Note(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}

func newPurchaseViews(purchases []*voucher.Purchase) []PurchaseView {
	views := make([]PurchaseView, 0, len(purchases))
	for _, p := range purchases {
		views = append(views, newPurchaseView(p))
	}
	return views
}
