package voucher

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackyeh168/voucher_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/voucher_ledger/src/internal/domain/voucher"
)

// ===========================
// Mock Settings Repository
// ===========================

type settingsRow struct {
	balance   int64
	issuedAt  time.Time
	expireAt  *time.Time
	updatedAt time.Time
	version   int64
}

type MockSettingsRepository struct {
	row   *settingsRow
	clock shared.Clock

	FindErr   error
	UpdateErr error
	// BeforeCAS 模擬其他寫入者在讀取與條件更新之間修改餘額
	BeforeCAS func(m *MockSettingsRepository)

	FindCallCount    int
	ReplaceCallCount int
	UpdateCallCount  int
	CASCallCount     int
}

func NewMockSettingsRepository(clock shared.Clock) *MockSettingsRepository {
	return &MockSettingsRepository{clock: clock}
}

// Seed 預先寫入設定
func (m *MockSettingsRepository) Seed(balance int64, expireAt *time.Time) {
	now := m.clock.Now()
	m.row = &settingsRow{
		balance:   balance,
		issuedAt:  now,
		expireAt:  expireAt,
		updatedAt: now,
		version:   1,
	}
}

// Balance 目前儲存的餘額（未設定時為 -1）
func (m *MockSettingsRepository) Balance() int64 {
	if m.row == nil {
		return -1
	}
	return m.row.balance
}

func (m *MockSettingsRepository) WriteCount() int {
	return m.ReplaceCallCount + m.UpdateCallCount + m.CASCallCount
}

func (m *MockSettingsRepository) FindCurrent(ctx context.Context, tx shared.TransactionContext) (*voucher.Settings, error) {
	m.FindCallCount++
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	if m.row == nil {
		return nil, voucher.ErrNotConfigured
	}
	return voucher.ReconstructSettings(
		m.row.balance, m.row.issuedAt, m.row.expireAt,
		m.row.updatedAt.Year(), m.row.updatedAt, m.row.version,
	)
}

func (m *MockSettingsRepository) Replace(ctx context.Context, tx shared.TransactionContext, draft voucher.SettingsDraft) (*voucher.Settings, error) {
	m.ReplaceCallCount++
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	now := m.clock.Now()
	issuedAt := now
	if draft.IssuedAt != nil {
		issuedAt = *draft.IssuedAt
	}
	version := int64(1)
	if m.row != nil {
		version = m.row.version + 1
	}
	m.row = &settingsRow{
		balance:   draft.Balance.Value(),
		issuedAt:  issuedAt,
		expireAt:  draft.ExpireAt,
		updatedAt: now,
		version:   version,
	}
	return m.FindCurrent(ctx, tx)
}

func (m *MockSettingsRepository) UpdateBalance(ctx context.Context, tx shared.TransactionContext, balance voucher.Yen) error {
	m.UpdateCallCount++
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if m.row == nil {
		return voucher.ErrNotConfigured
	}
	m.setBalance(balance.Value())
	return nil
}

func (m *MockSettingsRepository) CompareAndSetBalance(
	ctx context.Context,
	tx shared.TransactionContext,
	expectedBalance voucher.Yen,
	expectedVersion int64,
	balance voucher.Yen,
) error {
	m.CASCallCount++
	if m.BeforeCAS != nil {
		m.BeforeCAS(m)
	}
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if m.row == nil || m.row.balance != expectedBalance.Value() || m.row.version != expectedVersion {
		return voucher.ErrConflict
	}
	m.setBalance(balance.Value())
	return nil
}

func (m *MockSettingsRepository) setBalance(v int64) {
	m.row.balance = v
	m.row.updatedAt = m.clock.Now()
	m.row.version++
}

func (m *MockSettingsRepository) snapshot() func() {
	if m.row == nil {
		return func() { m.row = nil }
	}
	saved := *m.row
	return func() { m.row = &saved }
}

// ===========================
// Mock Purchase Repository
// ===========================

type MockPurchaseRepository struct {
	purchases []*voucher.Purchase // 新到舊
	clock     shared.Clock

	AddErr error

	AddCallCount    int
	DeleteCallCount int
	UpdateCallCount int
}

func NewMockPurchaseRepository(clock shared.Clock) *MockPurchaseRepository {
	return &MockPurchaseRepository{clock: clock}
}

func (m *MockPurchaseRepository) List(ctx context.Context, tx shared.TransactionContext) ([]*voucher.Purchase, error) {
	out := make([]*voucher.Purchase, len(m.purchases))
	copy(out, m.purchases)
	return out, nil
}

func (m *MockPurchaseRepository) Add(ctx context.Context, tx shared.TransactionContext, draft voucher.PurchaseDraft) (*voucher.Purchase, error) {
	m.AddCallCount++
	if m.AddErr != nil {
		return nil, m.AddErr
	}
	now := m.clock.Now()
	p, err := voucher.ReconstructPurchase(
		voucher.NewPurchaseID(), draft.Item(), draft.Price().Value(), draft.Date().String(),
		draft.Note(), now, now.Year(), nil,
	)
	if err != nil {
		return nil, err
	}
	m.purchases = append([]*voucher.Purchase{p}, m.purchases...)
	return p, nil
}

func (m *MockPurchaseRepository) Update(ctx context.Context, tx shared.TransactionContext, id voucher.PurchaseID, draft voucher.PurchaseDraft) (*voucher.Purchase, error) {
	m.UpdateCallCount++
	for i, existing := range m.purchases {
		if !existing.ID().Equals(id) {
			continue
		}
		now := m.clock.Now()
		p, err := voucher.ReconstructPurchase(
			id, draft.Item(), draft.Price().Value(), draft.Date().String(),
			draft.Note(), existing.CreatedAt(), existing.Year(), &now,
		)
		if err != nil {
			return nil, err
		}
		m.purchases[i] = p
		return p, nil
	}
	return nil, voucher.ErrPurchaseNotFound
}

func (m *MockPurchaseRepository) Delete(ctx context.Context, tx shared.TransactionContext, id voucher.PurchaseID) error {
	m.DeleteCallCount++
	for i, existing := range m.purchases {
		if existing.ID().Equals(id) {
			m.purchases = append(m.purchases[:i], m.purchases[i+1:]...)
			return nil
		}
	}
	return voucher.ErrPurchaseNotFound
}

func (m *MockPurchaseRepository) snapshot() func() {
	saved := make([]*voucher.Purchase, len(m.purchases))
	copy(saved, m.purchases)
	return func() { m.purchases = saved }
}

// ===========================
// Mock TransactionManager
// ===========================

type snapshotter interface {
	snapshot() func()
}

// MockTransactionManager fn 返回錯誤時還原所有登記的倉儲狀態
type MockTransactionManager struct {
	participants []snapshotter

	InTransactionCallCount int
}

type mockTx struct{}

func NewMockTransactionManager(participants ...snapshotter) *MockTransactionManager {
	return &MockTransactionManager{participants: participants}
}

func (m *MockTransactionManager) InTransaction(ctx context.Context, fn func(tx shared.TransactionContext) error) error {
	m.InTransactionCallCount++

	restores := make([]func(), 0, len(m.participants))
	for _, p := range m.participants {
		restores = append(restores, p.snapshot())
	}
	if err := fn(mockTx{}); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

// ===========================
// Mock EventPublisher
// ===========================

type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
	Err    error
}

func (m *MockEventPublisher) Publish(ctx context.Context, event shared.DomainEvent) error {
	return m.PublishBatch(ctx, []shared.DomainEvent{event})
}

func (m *MockEventPublisher) PublishBatch(ctx context.Context, events []shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.events))
	for _, e := range m.events {
		types = append(types, e.EventType())
	}
	return types
}

var errBrokerDown = errors.New("broker down")

// ===========================
// 測試環境
// ===========================

type fixture struct {
	clock     *shared.FixedClock
	settings  *MockSettingsRepository
	purchases *MockPurchaseRepository
	txManager *MockTransactionManager
	publisher *MockEventPublisher
	events    *EventDispatcher
}

// baseNow 2025-06-15 12:00 UTC
var baseNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	clock := shared.NewFixedClock(baseNow)
	settings := NewMockSettingsRepository(clock)
	purchases := NewMockPurchaseRepository(clock)
	publisher := &MockEventPublisher{}
	return &fixture{
		clock:     clock,
		settings:  settings,
		purchases: purchases,
		txManager: NewMockTransactionManager(settings, purchases),
		publisher: publisher,
		events:    NewEventDispatcher(publisher, nil),
	}
}

func (f *fixture) recordPurchase() *RecordPurchaseUseCase {
	return NewRecordPurchaseUseCase(f.settings, f.purchases, f.txManager, f.clock, f.events)
}

func ptrTime(t time.Time) *time.Time { return &t }
