package httpapi

import (
	"bytes"
	"encoding/json"
	"time"

	appvoucher "github.com/jackyeh168/voucher_ledger/src/internal/application/voucher"
)

// flexString 接受 JSON 字串或數字（表單送來的金額兩種都有）
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

type purchaseRequest struct {
	Item  string     `json:"item"`
	Price flexString `json:"price"`
	Date  string     `json:"date"`
	Note  string     `json:"note"`
}

type settingsRequest struct {
	Balance  flexString `json:"balance"`
	IssuedAt string     `json:"issuedAt"`
	ExpireAt string     `json:"expireAt"`
}

type settingsResponse struct {
	Configured bool       `json:"configured"`
	Balance    int64      `json:"balance"`
	IssuedAt   *time.Time `json:"issuedAt,omitempty"`
	ExpireAt   *time.Time `json:"expireAt,omitempty"`
	Expired    bool       `json:"expired"`
	DaysLeft   *int       `json:"daysLeft,omitempty"`
	Year       int        `json:"year,omitempty"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

func newSettingsResponse(v *appvoucher.SettingsView) settingsResponse {
	if !v.Configured {
		return settingsResponse{Configured: false}
	}
	issuedAt, updatedAt := v.IssuedAt, v.UpdatedAt
	return settingsResponse{
		Configured: true,
		Balance:    v.Balance,
		IssuedAt:   &issuedAt,
		ExpireAt:   v.ExpireAt,
		Expired:    v.Expired,
		DaysLeft:   v.DaysLeft,
		Year:       v.Year,
		UpdatedAt:  &updatedAt,
	}
}

type purchaseResponse struct {
	ID        string     `json:"id"`
	Item      string     `json:"item"`
	Price     int64      `json:"price"`
	Date      string     `json:"date"`
	Note      string     `json:"note"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func newPurchaseResponse(v appvoucher.PurchaseView) purchaseResponse {
	return purchaseResponse{
		ID:        v.ID,
		Item:      v.Item,
		Price:     v.Price,
		Date:      v.Date,
		Note:      v.Note,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

type recordPurchaseResponse struct {
	Purchase   purchaseResponse `json:"purchase"`
	NewBalance int64            `json:"newBalance"`
}

type resetResponse struct {
	PreviousBalance int64 `json:"previousBalance"`
	Balance         int64 `json:"balance"`
}
