package voucher

import "time"

// ===========================
// PurchaseDraft 待新增的購買記錄
// ===========================

// PurchaseDraft 已驗證、尚未持久化的購買內容
//
// ID 與 createdAt 由儲存層於新增時指派。
type PurchaseDraft struct {
	item  string
	price Yen
	date  CalendarDate
	note  string
}

// NewPurchaseDraft 驗證表單輸入並建立購買內容
//
// 驗證順序：item → price → date → note，返回第一個欄位錯誤（ErrInvalidInput）。
func NewPurchaseDraft(item, price, date, note string) (PurchaseDraft, error) {
	normalizedItem, err := normalizeText("item", item, true, MaxItemLength)
	if err != nil {
		return PurchaseDraft{}, err
	}

	amount, err := ParsePrice(price)
	if err != nil {
		return PurchaseDraft{}, err
	}

	d, err := ParseCalendarDate("date", date)
	if err != nil {
		return PurchaseDraft{}, err
	}

	normalizedNote, err := normalizeText("note", note, false, MaxNoteLength)
	if err != nil {
		return PurchaseDraft{}, err
	}

	return PurchaseDraft{
		item:  normalizedItem,
		price: amount,
		date:  d,
		note:  normalizedNote,
	}, nil
}

// Item 商品名稱
func (d PurchaseDraft) Item() string { return d.item }

// Price 金額
func (d PurchaseDraft) Price() Yen { return d.price }

// Date 使用者選擇的日期
func (d PurchaseDraft) Date() CalendarDate { return d.date }

// Note 備註
func (d PurchaseDraft) Note() string { return d.note }

// ===========================
// Purchase 購買記錄
// ===========================

// Purchase 已持久化的購買記錄
//
// 不變條件：price > 0。
// 顯示順序一律以 createdAt 降序；date 只是使用者填寫的標籤。
type Purchase struct {
	id        PurchaseID
	item      string
	price     Yen
	date      CalendarDate
	note      string
	createdAt time.Time
	year      int
	updatedAt *time.Time
}

// ReconstructPurchase 從持久化存儲重建購買記錄（僅供 Infrastructure Layer 使用）
func ReconstructPurchase(
	id PurchaseID,
	item string,
	price int64,
	date string,
	note string,
	createdAt time.Time,
	year int,
	updatedAt *time.Time,
) (*Purchase, error) {
	if id.IsEmpty() {
		return nil, NewInvalidInput("id", "empty purchase id in store")
	}
	if price <= 0 {
		return nil, NewInvalidInput("price", "non-positive price in store")
	}
	amount, err := NewYen(price)
	if err != nil {
		return nil, err
	}
	d, err := ParseCalendarDate("date", date)
	if err != nil {
		return nil, err
	}

	var updated *time.Time
	if updatedAt != nil {
		t := updatedAt.UTC()
		updated = &t
	}

	return &Purchase{
		id:        id,
		item:      item,
		price:     amount,
		date:      d,
		note:      note,
		createdAt: createdAt.UTC(),
		year:      year,
		updatedAt: updated,
	}, nil
}

// ID 購買記錄 ID
func (p *Purchase) ID() PurchaseID { return p.id }

// Item 商品名稱
func (p *Purchase) Item() string { return p.item }

// Price 金額
func (p *Purchase) Price() Yen { return p.price }

// Date 使用者選擇的日期
func (p *Purchase) Date() CalendarDate { return p.date }

// Note 備註
func (p *Purchase) Note() string { return p.note }

// CreatedAt 儲存層指派的建立時間（排序鍵）
func (p *Purchase) CreatedAt() time.Time { return p.createdAt }

// Year 建立年份（僅供顯示）
func (p *Purchase) Year() int { return p.year }

// UpdatedAt 最後編輯時間（未編輯為 nil）
func (p *Purchase) UpdatedAt() *time.Time {
	if p.updatedAt == nil {
		return nil
	}
	t := *p.updatedAt
	return &t
}
