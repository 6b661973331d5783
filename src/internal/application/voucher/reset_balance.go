package voucher

import (
	"context"
	"fmt"

	"github.com/jackyeh168/voucher_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/voucher_ledger/src/internal/domain/voucher"
)

// DefaultBalance 重設時的預設餘額（円）
const DefaultBalance int64 = 10000

// ResetBalanceResult 重設結果
type ResetBalanceResult struct {
	PreviousBalance int64
	Balance         int64
}

// ResetBalanceUseCase 將餘額重設為預設金額（管理員）
//
// 只更新 balance；發行日與到期日不變。
type ResetBalanceUseCase struct {
	settingsRepo voucher.SettingsRepository
	clock        shared.Clock
	amount       voucher.Yen
	events       *EventDispatcher
}

// NewResetBalanceUseCase 創建 Use Case 實例
func NewResetBalanceUseCase(
	settingsRepo voucher.SettingsRepository,
	clock shared.Clock,
	amount voucher.Yen,
	events *EventDispatcher,
) *ResetBalanceUseCase {
	return &ResetBalanceUseCase{
		settingsRepo: settingsRepo,
		clock:        clock,
		amount:       amount,
		events:       events,
	}
}

// Execute 執行重設
//
// 錯誤：ErrNotConfigured（尚無設定時不建立新設定）
func (uc *ResetBalanceUseCase) Execute(ctx context.Context) (*ResetBalanceResult, error) {
	settings, err := uc.settingsRepo.FindCurrent(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	previous := settings.Balance()
	settings.ResetTo(uc.amount, uc.clock.Now())

	if err := uc.settingsRepo.UpdateBalance(ctx, nil, settings.Balance()); err != nil {
		return nil, fmt.Errorf("failed to reset balance: %w", err)
	}

	uc.events.Dispatch(ctx, settings.PullEvents()...)

	return &ResetBalanceResult{
		PreviousBalance: previous.Value(),
		Balance:         settings.Balance().Value(),
	}, nil
}
