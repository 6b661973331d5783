package voucher

import (
	"context"
	"fmt"

	"github.com/jackyeh168/voucher_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/voucher_ledger/src/internal/domain/voucher"
)

// UpdatePurchaseCommand 編輯購買記錄的命令
type UpdatePurchaseCommand struct {
	ID    string
	Item  string
	Price string
	Date  string
	Note  string
}

// UpdatePurchaseUseCase 編輯購買記錄（管理員）
//
// 修正記錄內容，不調整餘額；排序鍵 createdAt 不變。
type UpdatePurchaseUseCase struct {
	purchaseRepo voucher.PurchaseRepository
	clock        shared.Clock
	events       *EventDispatcher
}

// NewUpdatePurchaseUseCase 創建 Use Case 實例
func NewUpdatePurchaseUseCase(
	purchaseRepo voucher.PurchaseRepository,
	clock shared.Clock,
	events *EventDispatcher,
) *UpdatePurchaseUseCase {
	return &UpdatePurchaseUseCase{
		purchaseRepo: purchaseRepo,
		clock:        clock,
		events:       events,
	}
}

// Execute 執行編輯
func (uc *UpdatePurchaseUseCase) Execute(ctx context.Context, cmd UpdatePurchaseCommand) (*PurchaseView, error) {
	id, err := voucher.PurchaseIDFromString(cmd.ID)
	if err != nil {
		return nil, err
	}

	draft, err := voucher.NewPurchaseDraft(cmd.Item, cmd.Price, cmd.Date, cmd.Note)
	if err != nil {
		return nil, err
	}

	updated, err := uc.purchaseRepo.Update(ctx, nil, id, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to update purchase: %w", err)
	}

	uc.events.Dispatch(ctx, voucher.NewPurchaseUpdatedEvent(updated, uc.clock.Now()))

	view := newPurchaseView(updated)
	return &view, nil
}
