package voucher

import (
	"context"
	"fmt"
	"time"

	"github.com/jackyeh168/voucher_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/voucher_ledger/src/internal/domain/voucher"
)

// ===========================
// RecordPurchase Use Case
// ===========================

// RecordPurchaseCommand 記錄購買的命令（表單原始輸入）
type RecordPurchaseCommand struct {
	Item  string
	Price string
	Date  string
	Note  string
}

// RecordPurchaseResult 記錄購買的結果
type RecordPurchaseResult struct {
	PurchaseID string
	Item       string
	Price      int64
	Date       string
	Note       string
	CreatedAt  time.Time
	NewBalance int64
}

// RecordPurchaseUseCase 記錄購買並扣減餘額
//
// 職責：
// 1. 讀取設定並檢查有效期限
// 2. 驗證輸入與餘額
// 3. 在單一事務中新增記錄並條件更新餘額
// 4. 提交後發布事件
type RecordPurchaseUseCase struct {
	settingsRepo voucher.SettingsRepository
	purchaseRepo voucher.PurchaseRepository
	txManager    shared.TransactionManager
	clock        shared.Clock
	events       *EventDispatcher
}

// NewRecordPurchaseUseCase 創建 Use Case 實例
func NewRecordPurchaseUseCase(
	settingsRepo voucher.SettingsRepository,
	purchaseRepo voucher.PurchaseRepository,
	txManager shared.TransactionManager,
	clock shared.Clock,
	events *EventDispatcher,
) *RecordPurchaseUseCase {
	return &RecordPurchaseUseCase{
		settingsRepo: settingsRepo,
		purchaseRepo: purchaseRepo,
		txManager:    txManager,
		clock:        clock,
		events:       events,
	}
}

// Execute 執行記錄購買
//
// 錯誤判斷順序：
// - ErrNotConfigured: 尚無設定
// - ErrVoucherExpired: 已過期（不寫入任何資料）
// - ErrInvalidInput: 欄位驗證失敗
// - ErrInsufficientBalance: price > balance
// - ErrConflict: 讀取後餘額已被其他寫入者變更（事務回滾，可重試）
// - ErrStoreError: 儲存層失敗
func (uc *RecordPurchaseUseCase) Execute(ctx context.Context, cmd RecordPurchaseCommand) (*RecordPurchaseResult, error) {
	// 1. 讀取目前設定
	settings, err := uc.settingsRepo.FindCurrent(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	// 2. 有效期限
	now := uc.clock.Now()
	if settings.IsExpired(now) {
		return nil, voucher.ErrVoucherExpired.WithContext("expire_at", settings.ExpireAt().Format(time.RFC3339))
	}

	// 3. 驗證輸入
	draft, err := voucher.NewPurchaseDraft(cmd.Item, cmd.Price, cmd.Date, cmd.Note)
	if err != nil {
		return nil, err
	}

	// 4. 餘額檢查（聚合內扣減，失敗時狀態不變）
	expectedBalance := settings.Balance()
	expectedVersion := settings.Version()
	if err := settings.Deduct(draft.Price(), now); err != nil {
		return nil, err
	}

	// 5+6. 新增記錄與條件更新餘額在同一事務
	var purchase *voucher.Purchase
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		added, err := uc.purchaseRepo.Add(ctx, tx, draft)
		if err != nil {
			return fmt.Errorf("failed to add purchase: %w", err)
		}
		if err := uc.settingsRepo.CompareAndSetBalance(ctx, tx, expectedBalance, expectedVersion, settings.Balance()); err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}
		purchase = added
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 7. 發布事件
	events := append(settings.PullEvents(), voucher.NewPurchaseRecordedEvent(purchase))
	uc.events.Dispatch(ctx, events...)

	return &RecordPurchaseResult{
		PurchaseID: purchase.ID().String(),
		Item:       purchase.Item(),
		Price:      purchase.Price().Value(),
		Date:       purchase.Date().String(),
		Note:       purchase.Note(),
		CreatedAt:  purchase.CreatedAt(),
		NewBalance: settings.Balance().Value(),
	}, nil
}
