package messaging

import (
	"encoding/json"
	"time"

	"github.com/jackyeh168/voucher_ledger/src/internal/domain/shared"
)

// Envelope 事件的線上格式（Kafka value / Redis payload）
type Envelope struct {
	EventID     string         `json:"event_id"`
	EventType   string         `json:"event_type"`
	AggregateID string         `json:"aggregate_id"`
	OccurredAt  time.Time      `json:"occurred_at"`
	Payload     map[string]any `json:"payload,omitempty"`
}

// NewEnvelope 由領域事件建立線上格式
func NewEnvelope(event shared.DomainEvent) Envelope {
	return Envelope{
		EventID:     event.EventID(),
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		OccurredAt:  event.OccurredAt().UTC(),
		Payload:     event.Payload(),
	}
}

// Marshal 序列化為 JSON
func (e Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
