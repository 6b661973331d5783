package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackyeh168/voucher_ledger/src/internal/domain/shared"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultRedisChannel 預設變更通知頻道
const DefaultRedisChannel = "voucher:changes"

// redisPublisher *redis.Client 的發布子集
type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisChangeFeed 以 Redis pub/sub 傳遞變更通知
//
// 作為 EventPublisher：每個事件發布一則通知。
// 作為 Poller 的 ChangeFeed：收到任何通知就觸發一次刷新，
// 連續通知會合併成一次。
type RedisChangeFeed struct {
	client    *redis.Client
	publisher redisPublisher
	channel   string
	log       *zap.Logger
}

var _ shared.EventPublisher = (*RedisChangeFeed)(nil)

// NewRedisChangeFeed 創建變更通知
func NewRedisChangeFeed(client *redis.Client, channel string, log *zap.Logger) *RedisChangeFeed {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisChangeFeed{client: client, publisher: client, channel: channel, log: log}
}

// Publish 發布單一事件通知
func (f *RedisChangeFeed) Publish(ctx context.Context, event shared.DomainEvent) error {
	data, err := NewEnvelope(event).Marshal()
	if err != nil {
		return fmt.Errorf("marshal %s: %w", event.EventType(), err)
	}
	if err := f.publisher.Publish(ctx, f.channel, data).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// PublishBatch 逐一發布通知，返回所有失敗
func (f *RedisChangeFeed) PublishBatch(ctx context.Context, events []shared.DomainEvent) error {
	var errs []error
	for _, event := range events {
		if err := f.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Subscribe 訂閱變更通知；ctx 結束時關閉訂閱與返回的 channel
func (f *RedisChangeFeed) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	pubsub := f.client.Subscribe(ctx, f.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("redis subscribe %s: %w", f.channel, err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer func() {
			if err := pubsub.Close(); err != nil {
				f.log.Debug("close redis subscription", zap.Error(err))
			}
		}()
		forward(ctx, pubsub.Channel(), out)
	}()
	return out, nil
}

// forward 將訊息轉為通知；out 已有未讀通知時丟棄新的通知
func forward(ctx context.Context, in <-chan *redis.Message, out chan struct{}) {
	defer close(out)
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-in:
			if !ok {
				return
			}
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}
}
