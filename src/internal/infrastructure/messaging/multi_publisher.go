package messaging

import (
	"context"
	"errors"

	"github.com/jackyeh168/voucher_ledger/src/internal/domain/shared"
)

// MultiPublisher 將事件分送給多個發布器
//
// 每個發布器都會被呼叫；錯誤合併返回。
type MultiPublisher struct {
	publishers []shared.EventPublisher
}

var _ shared.EventPublisher = (*MultiPublisher)(nil)

// NewMultiPublisher 創建分送發布器，忽略 nil
func NewMultiPublisher(publishers ...shared.EventPublisher) *MultiPublisher {
	m := &MultiPublisher{}
	for _, p := range publishers {
		if p != nil {
			m.publishers = append(m.publishers, p)
		}
	}
	return m
}

// Publish 分送單一事件
func (m *MultiPublisher) Publish(ctx context.Context, event shared.DomainEvent) error {
	return m.PublishBatch(ctx, []shared.DomainEvent{event})
}

// PublishBatch 分送多個事件
func (m *MultiPublisher) PublishBatch(ctx context.Context, events []shared.DomainEvent) error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.PublishBatch(ctx, events); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len 發布器數量
func (m *MultiPublisher) Len() int {
	return len(m.publishers)
}
