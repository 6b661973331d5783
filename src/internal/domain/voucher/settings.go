package voucher

import (
	"time"

	"github.com/jackyeh168/voucher_ledger/src/internal/domain/shared"
)

// ===========================
// Settings 聚合根（單例）
// ===========================

// Settings 餘額設定聚合根
//
// 業務不變條件：
// - balance >= 0（每次經由 Deduct / ResetTo 修改後仍成立）
// - 同一時間最多存在一筆（鍵為 SettingsKey）
//
// 生命週期：管理員整筆覆寫（Replace）；balance 由重設或購買就地修改；永不刪除。
// version 每次寫入遞增，用於條件更新偵測並發寫入。
type Settings struct {
	balance   Yen
	issuedAt  time.Time
	expireAt  *time.Time
	year      int
	updatedAt time.Time
	version   int64

	events []shared.DomainEvent
}

// ReconstructSettings 從持久化存儲重建聚合根（僅供 Infrastructure Layer 使用）
//
// 即使是從資料庫重建，也驗證不變條件，防止損壞資料進入領域層。
func ReconstructSettings(
	balance int64,
	issuedAt time.Time,
	expireAt *time.Time,
	year int,
	updatedAt time.Time,
	version int64,
) (*Settings, error) {
	amount, err := NewYen(balance)
	if err != nil {
		return nil, ErrCorruptedRecord.WithContext(
			"balance", balance,
			"underlying_error", err.Error(),
		)
	}

	var expire *time.Time
	if expireAt != nil {
		t := expireAt.UTC()
		expire = &t
	}

	return &Settings{
		balance:   amount,
		issuedAt:  issuedAt.UTC(),
		expireAt:  expire,
		year:      year,
		updatedAt: updatedAt.UTC(),
		version:   version,
		events:    make([]shared.DomainEvent, 0),
	}, nil
}

// ===========================
// 查詢方法
// ===========================

// Balance 目前餘額
func (s *Settings) Balance() Yen { return s.balance }

// IssuedAt 發行時間
func (s *Settings) IssuedAt() time.Time { return s.issuedAt }

// ExpireAt 到期時間（nil 表示永不過期），返回副本
func (s *Settings) ExpireAt() *time.Time {
	if s.expireAt == nil {
		return nil
	}
	t := *s.expireAt
	return &t
}

// Year 最後寫入年份（僅供顯示）
func (s *Settings) Year() int { return s.year }

// UpdatedAt 最後餘額變更時間
func (s *Settings) UpdatedAt() time.Time { return s.updatedAt }

// Version 寫入版本號
func (s *Settings) Version() int64 { return s.version }

// IsExpired 在 now 時是否已過期
func (s *Settings) IsExpired(now time.Time) bool {
	return IsExpired(s.expireAt, now)
}

// DaysUntilExpiry 距離到期天數（nil 表示永不過期）
func (s *Settings) DaysUntilExpiry(now time.Time) *int {
	return DaysUntilExpiry(s.expireAt, now)
}

// ===========================
// 命令方法
// ===========================

// Deduct 扣減餘額（購買）
//
// 前置條件：price <= balance，否則返回 ErrInsufficientBalance 且狀態不變。
// 有效期限由調用者（Use Case）先行檢查，以維持錯誤判斷順序。
func (s *Settings) Deduct(price Yen, now time.Time) error {
	next, err := s.balance.Subtract(price)
	if err != nil {
		return err
	}

	before := s.balance
	s.balance = next
	s.updatedAt = now.UTC()

	s.addEvent(NewBalanceDeductedEvent(price, before, next, now))
	return nil
}

// ResetTo 將餘額設為指定金額（管理員重設），不影響發行日與到期日
func (s *Settings) ResetTo(amount Yen, now time.Time) {
	before := s.balance
	s.balance = amount
	s.updatedAt = now.UTC()

	s.addEvent(NewBalanceResetEvent(before, amount, now))
}

// ===========================
// 事件管理
// ===========================

func (s *Settings) addEvent(event shared.DomainEvent) {
	s.events = append(s.events, event)
}

// PullEvents 獲取所有待發布事件並清空列表
func (s *Settings) PullEvents() []shared.DomainEvent {
	events := s.events
	s.events = make([]shared.DomainEvent, 0)
	return events
}

// ===========================
// SettingsDraft 整筆覆寫內容
// ===========================

// SettingsDraft 管理員提交的設定（尚未持久化）
//
// IssuedAt 為 nil 時由儲存層使用伺服器時間；ExpireAt 為 nil 表示永不過期。
type SettingsDraft struct {
	Balance  Yen
	IssuedAt *time.Time
	ExpireAt *time.Time
}

// NewSettingsDraft 建立並驗證設定內容
//
// 業務規則：同時提供發行日與到期日時，到期日不得早於發行日。
func NewSettingsDraft(balance Yen, issuedAt, expireAt *time.Time) (SettingsDraft, error) {
	if issuedAt != nil && expireAt != nil && expireAt.Before(*issuedAt) {
		return SettingsDraft{}, NewInvalidInput("expireAt", "must not be before issuedAt")
	}
	return SettingsDraft{Balance: balance, IssuedAt: issuedAt, ExpireAt: expireAt}, nil
}
