package voucher

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ===========================
// Poller 定時刷新讀取端
// ===========================

const (
	// DefaultPollInterval 預設刷新間隔
	DefaultPollInterval = 3 * time.Second
	// DefaultStoreTimeout 單次儲存層呼叫的預設期限
	DefaultStoreTimeout = 5 * time.Second
)

// SnapshotSource 讀取快照的來源（LoadSnapshotUseCase）
type SnapshotSource interface {
	Execute(ctx context.Context) (*Snapshot, error)
}

// ChangeFeed 推送式變更通知
//
// 每次設定或帳本有寫入時送出一個通知；ctx 結束時關閉 channel。
type ChangeFeed interface {
	Subscribe(ctx context.Context) (<-chan struct{}, error)
}

// SnapshotHandler 接收刷新結果；err 不為 nil 時 snap 為 nil
type SnapshotHandler func(snap *Snapshot, err error)

// PollerConfig Poller 設定
type PollerConfig struct {
	Interval time.Duration
	Timeout  time.Duration
}

// Poller 以固定間隔（以及選用的變更通知）重新讀取設定與帳本
//
// 所有回呼都在 Run 的 goroutine 中依序執行；
// ctx 結束後完成的刷新不會回呼。
type Poller struct {
	source   SnapshotSource
	feed     ChangeFeed
	interval time.Duration
	timeout  time.Duration
	log      *zap.Logger
}

// NewPoller 創建 Poller；feed 可為 nil（僅定時刷新）
func NewPoller(source SnapshotSource, feed ChangeFeed, cfg PollerConfig, log *zap.Logger) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultStoreTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller{
		source:   source,
		feed:     feed,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		log:      log,
	}
}

// Run 立即刷新一次，之後在每次 tick 或變更通知時刷新，直到 ctx 結束
func (p *Poller) Run(ctx context.Context, fn SnapshotHandler) error {
	changes := p.subscribe(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.refresh(ctx, fn)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.refresh(ctx, fn)
		case _, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			p.refresh(ctx, fn)
		}
	}
}

// Start 在背景執行 Run，返回的 stop 會取消並等待結束
//
// stop 返回後不會再有任何回呼。
func (p *Poller) Start(ctx context.Context, fn SnapshotHandler) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = p.Run(ctx, fn)
	}()
	return func() {
		cancel()
		<-done
	}
}

func (p *Poller) subscribe(ctx context.Context) <-chan struct{} {
	if p.feed == nil {
		return nil
	}
	changes, err := p.feed.Subscribe(ctx)
	if err != nil {
		p.log.Warn("change feed unavailable, falling back to polling",
			zap.Duration("interval", p.interval),
			zap.Error(err),
		)
		return nil
	}
	return changes
}

func (p *Poller) refresh(ctx context.Context, fn SnapshotHandler) {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	snap, err := p.source.Execute(callCtx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		p.log.Warn("snapshot refresh failed", zap.Error(err))
	}
	fn(snap, err)
}
