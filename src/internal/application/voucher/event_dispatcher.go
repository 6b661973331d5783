package voucher

import (
	"context"

	"github.com/jackyeh168/voucher_ledger/src/internal/domain/shared"
	"go.uber.org/zap"
)

// EventDispatcher 於事務提交後發布領域事件
//
// 發布失敗只記錄日誌，不影響已完成的操作。
type EventDispatcher struct {
	publisher shared.EventPublisher
	log       *zap.Logger
}

// NewEventDispatcher 創建事件分派器；publisher 為 nil 時不發布
func NewEventDispatcher(publisher shared.EventPublisher, log *zap.Logger) *EventDispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &EventDispatcher{publisher: publisher, log: log}
}

// Dispatch 發布事件
func (d *EventDispatcher) Dispatch(ctx context.Context, events ...shared.DomainEvent) {
	if d == nil || d.publisher == nil || len(events) == 0 {
		return
	}
	if err := d.publisher.PublishBatch(ctx, events); err != nil {
		types := make([]string, 0, len(events))
		for _, e := range events {
			types = append(types, e.EventType())
		}
		d.log.Warn("failed to publish domain events",
			zap.Strings("event_types", types),
			zap.Error(err),
		)
	}
}
