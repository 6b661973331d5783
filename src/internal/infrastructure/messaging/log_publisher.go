package messaging

import (
	"context"

	"github.com/jackyeh168/voucher_ledger/src/internal/domain/shared"
	"go.uber.org/zap"
)

// LogPublisher 將事件寫入結構化日誌
type LogPublisher struct {
	log *zap.Logger
}

var _ shared.EventPublisher = (*LogPublisher)(nil)

// NewLogPublisher 創建日誌發布器
func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log.Named("events")}
}

// Publish 記錄單一事件
func (p *LogPublisher) Publish(ctx context.Context, event shared.DomainEvent) error {
	p.log.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID()),
		zap.String("aggregate_id", event.AggregateID()),
		zap.Time("occurred_at", event.OccurredAt()),
		zap.Any("payload", event.Payload()),
	)
	return nil
}

// PublishBatch 逐一記錄
func (p *LogPublisher) PublishBatch(ctx context.Context, events []shared.DomainEvent) error {
	for _, event := range events {
		_ = p.Publish(ctx, event)
	}
	return nil
}
