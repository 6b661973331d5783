package messaging

import (
	"context"
	"fmt"

	"github.com/jackyeh168/voucher_ledger/src/internal/domain/shared"
	"github.com/segmentio/kafka-go"
)

// DefaultKafkaTopic 預設事件主題
const DefaultKafkaTopic = "voucher.events"

// messageWriter *kafka.Writer 的子集
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher 將領域事件寫入 Kafka
//
// 訊息 key 為聚合根 ID，同一聚合的事件落在同一分區並保持順序。
type KafkaPublisher struct {
	writer messageWriter
}

var _ shared.EventPublisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher 創建 Kafka 發布器
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultKafkaTopic
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
	}
}

func newKafkaPublisherWithWriter(w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// Publish 發布單一事件
func (p *KafkaPublisher) Publish(ctx context.Context, event shared.DomainEvent) error {
	return p.PublishBatch(ctx, []shared.DomainEvent{event})
}

// PublishBatch 以一次寫入發布多個事件
func (p *KafkaPublisher) PublishBatch(ctx context.Context, events []shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		env := NewEnvelope(event)
		data, err := env.Marshal()
		if err != nil {
			return fmt.Errorf("marshal %s: %w", env.EventType, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(env.AggregateID),
			Value: data,
			Time:  env.OccurredAt,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(env.EventType)},
				{Key: "event_id", Value: []byte(env.EventID)},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

// Close 關閉底層 writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
