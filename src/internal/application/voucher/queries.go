package voucher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackyeh168/voucher_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/voucher_ledger/src/internal/domain/voucher"
)

// ===========================
// GetSettings Query
// ===========================

// GetSettingsUseCase 查詢目前餘額與有效期限
type GetSettingsUseCase struct {
	settingsRepo voucher.SettingsRepository
	clock        shared.Clock
}

// NewGetSettingsUseCase 創建 Use Case 實例
func NewGetSettingsUseCase(settingsRepo voucher.SettingsRepository, clock shared.Clock) *GetSettingsUseCase {
	return &GetSettingsUseCase{settingsRepo: settingsRepo, clock: clock}
}

// Execute 執行查詢
//
// 尚無設定時返回 Configured=false 的 View（不是錯誤）。
func (uc *GetSettingsUseCase) Execute(ctx context.Context) (*SettingsView, error) {
	settings, err := uc.settingsRepo.FindCurrent(ctx, nil)
	if errors.Is(err, voucher.ErrNotConfigured) {
		return &SettingsView{Configured: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return newSettingsView(settings, uc.clock.Now()), nil
}

// ===========================
// ListPurchases Query
// ===========================

// ListPurchasesUseCase 查詢全部購買記錄（新到舊）
type ListPurchasesUseCase struct {
	purchaseRepo voucher.PurchaseRepository
}

// NewListPurchasesUseCase 創建 Use Case 實例
func NewListPurchasesUseCase(purchaseRepo voucher.PurchaseRepository) *ListPurchasesUseCase {
	return &ListPurchasesUseCase{purchaseRepo: purchaseRepo}
}

// Execute 執行查詢
func (uc *ListPurchasesUseCase) Execute(ctx context.Context) ([]PurchaseView, error) {
	purchases, err := uc.purchaseRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return newPurchaseViews(purchases), nil
}

// ===========================
// Snapshot
// ===========================

// Snapshot 一次刷新所讀到的設定與帳本
type Snapshot struct {
	Settings    SettingsView
	Purchases   []PurchaseView
	RefreshedAt time.Time
}

// LoadSnapshotUseCase 依序讀取設定與帳本
type LoadSnapshotUseCase struct {
	getSettings   *GetSettingsUseCase
	listPurchases *ListPurchasesUseCase
	clock         shared.Clock
}

// NewLoadSnapshotUseCase 創建 Use Case 實例
func NewLoadSnapshotUseCase(
	getSettings *GetSettingsUseCase,
	listPurchases *ListPurchasesUseCase,
	clock shared.Clock,
) *LoadSnapshotUseCase {
	return &LoadSnapshotUseCase{
		getSettings:   getSettings,
		listPurchases: listPurchases,
		clock:         clock,
	}
}

// Execute 讀取快照
func (uc *LoadSnapshotUseCase) Execute(ctx context.Context) (*Snapshot, error) {
	settings, err := uc.getSettings.Execute(ctx)
	if err != nil {
		return nil, err
	}
	purchases, err := uc.listPurchases.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Settings:    *settings,
		Purchases:   purchases,
		RefreshedAt: uc.clock.Now(),
	}, nil
}
