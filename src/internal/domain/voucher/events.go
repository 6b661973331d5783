package voucher

import (
	"time"

	"github.com/google/uuid"
)

// ===========================
// 領域事件
// ===========================

// 事件類型
const (
	EventSettingsReplaced = "voucher.settings_replaced"
	EventBalanceReset     = "voucher.balance_reset"
	EventBalanceDeducted  = "voucher.balance_deducted"
	EventPurchaseRecorded = "voucher.purchase_recorded"
	EventPurchaseDeleted  = "voucher.purchase_deleted"
	EventPurchaseUpdated  = "voucher.purchase_updated"
)

// Event 餘額券領域事件（實現 shared.DomainEvent）
//
// 所有事件共用同一結構，差異在 eventType 與 payload。
type Event struct {
	eventID     string
	eventType   string
	aggregateID string
	occurredAt  time.Time
	payload     map[string]any
}

func newEvent(eventType, aggregateID string, at time.Time, payload map[string]any) *Event {
	return &Event{
		eventID:     uuid.New().String(),
		eventType:   eventType,
		aggregateID: aggregateID,
		occurredAt:  at.UTC(),
		payload:     payload,
	}
}

// EventID 實現 DomainEvent 介面
func (e *Event) EventID() string { return e.eventID }

// EventType 實現 DomainEvent 介面
func (e *Event) EventType() string { return e.eventType }

// OccurredAt 實現 DomainEvent 介面
func (e *Event) OccurredAt() time.Time { return e.occurredAt }

// AggregateID 實現 DomainEvent 介面
func (e *Event) AggregateID() string { return e.aggregateID }

// Payload 實現 DomainEvent 介面（返回副本）
func (e *Event) Payload() map[string]any {
	out := make(map[string]any, len(e.payload))
	for k, v := range e.payload {
		out[k] = v
	}
	return out
}

// NewSettingsReplacedEvent 設定整筆覆寫事件
func NewSettingsReplacedEvent(s *Settings) *Event {
	payload := map[string]any{
		"balance":  s.Balance().Value(),
		"issuedAt": s.IssuedAt().Format(time.RFC3339),
	}
	if exp := s.ExpireAt(); exp != nil {
		payload["expireAt"] = exp.Format(time.RFC3339)
	}
	return newEvent(EventSettingsReplaced, SettingsKey, s.UpdatedAt(), payload)
}

// NewBalanceResetEvent 管理員重設餘額事件
func NewBalanceResetEvent(before, after Yen, at time.Time) *Event {
	return newEvent(EventBalanceReset, SettingsKey, at, map[string]any{
		"before": before.Value(),
		"after":  after.Value(),
	})
}

// NewBalanceDeductedEvent 購買扣款事件
func NewBalanceDeductedEvent(amount, before, after Yen, at time.Time) *Event {
	return newEvent(EventBalanceDeducted, SettingsKey, at, map[string]any{
		"amount": amount.Value(),
		"before": before.Value(),
		"after":  after.Value(),
	})
}

// NewPurchaseRecordedEvent 購買記錄新增事件
func NewPurchaseRecordedEvent(p *Purchase) *Event {
	return newEvent(EventPurchaseRecorded, p.ID().String(), p.CreatedAt(), map[string]any{
		"item":  p.Item(),
		"price": p.Price().Value(),
		"date":  p.Date().String(),
		"note":  p.Note(),
	})
}

// NewPurchaseUpdatedEvent 購買記錄編輯事件
func NewPurchaseUpdatedEvent(p *Purchase, at time.Time) *Event {
	return newEvent(EventPurchaseUpdated, p.ID().String(), at, map[string]any{
		"item":  p.Item(),
		"price": p.Price().Value(),
		"date":  p.Date().String(),
		"note":  p.Note(),
	})
}

// NewPurchaseDeletedEvent 購買記錄刪除事件（不回補餘額）
func NewPurchaseDeletedEvent(id PurchaseID, at time.Time) *Event {
	return newEvent(EventPurchaseDeleted, id.String(), at, map[string]any{})
}
