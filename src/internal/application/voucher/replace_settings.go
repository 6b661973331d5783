package voucher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackyeh168/voucher_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/voucher_ledger/src/internal/domain/voucher"
)

// ===========================
// ReplaceSettings Use Case（管理員）
// ===========================

// ReplaceSettingsCommand 整筆覆寫設定的命令
//
// - Balance: 非負整數（允許千分位逗號）
// - IssuedAt: 選填，日期或時間戳；空白時使用儲存層時間
// - ExpireAt: 選填，日期或時間戳；空白表示永不過期
type ReplaceSettingsCommand struct {
	Balance  string
	IssuedAt string
	ExpireAt string
}

// ReplaceSettingsUseCase 整筆覆寫設定
type ReplaceSettingsUseCase struct {
	settingsRepo voucher.SettingsRepository
	clock        shared.Clock
	loc          *time.Location
	events       *EventDispatcher
}

// NewReplaceSettingsUseCase 創建 Use Case 實例
//
// loc 為日期輸入所在的時區（日期視為該時區的 00:00）。
func NewReplaceSettingsUseCase(
	settingsRepo voucher.SettingsRepository,
	clock shared.Clock,
	loc *time.Location,
	events *EventDispatcher,
) *ReplaceSettingsUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &ReplaceSettingsUseCase{
		settingsRepo: settingsRepo,
		clock:        clock,
		loc:          loc,
		events:       events,
	}
}

// Execute 驗證並覆寫設定，返回覆寫後的 View
func (uc *ReplaceSettingsUseCase) Execute(ctx context.Context, cmd ReplaceSettingsCommand) (*SettingsView, error) {
	balance, err := voucher.ParseBalance(cmd.Balance)
	if err != nil {
		return nil, err
	}

	issuedAt, err := uc.optionalInstant("issuedAt", cmd.IssuedAt)
	if err != nil {
		return nil, err
	}
	expireAt, err := uc.optionalInstant("expireAt", cmd.ExpireAt)
	if err != nil {
		return nil, err
	}

	draft, err := voucher.NewSettingsDraft(balance, issuedAt, expireAt)
	if err != nil {
		return nil, err
	}

	saved, err := uc.settingsRepo.Replace(ctx, nil, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to replace settings: %w", err)
	}

	uc.events.Dispatch(ctx, voucher.NewSettingsReplacedEvent(saved))

	return newSettingsView(saved, uc.clock.Now()), nil
}

func (uc *ReplaceSettingsUseCase) optionalInstant(field, raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := voucher.NormalizeInstant(field, raw, uc.loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
