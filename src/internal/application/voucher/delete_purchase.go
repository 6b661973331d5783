package voucher

import (
	"context"
	"fmt"

	"github.com/jackyeh168/voucher_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/voucher_ledger/src/internal/domain/voucher"
)

// DeletePurchaseCommand 刪除購買記錄的命令
type DeletePurchaseCommand struct {
	ID string
}

// DeletePurchaseUseCase 刪除購買記錄（管理員）
//
// 只刪除記錄，不回補餘額；需要回補時由管理員另行覆寫或重設餘額。
type DeletePurchaseUseCase struct {
	purchaseRepo voucher.PurchaseRepository
	clock        shared.Clock
	events       *EventDispatcher
}

// NewDeletePurchaseUseCase 創建 Use Case 實例
func NewDeletePurchaseUseCase(
	purchaseRepo voucher.PurchaseRepository,
	clock shared.Clock,
	events *EventDispatcher,
) *DeletePurchaseUseCase {
	return &DeletePurchaseUseCase{
		purchaseRepo: purchaseRepo,
		clock:        clock,
		events:       events,
	}
}

// Execute 執行刪除
//
// 錯誤：
// - ErrInvalidInput: ID 格式無效
// - ErrPurchaseNotFound: 記錄不存在
func (uc *DeletePurchaseUseCase) Execute(ctx context.Context, cmd DeletePurchaseCommand) error {
	id, err := voucher.PurchaseIDFromString(cmd.ID)
	if err != nil {
		return err
	}

	if err := uc.purchaseRepo.Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete purchase: %w", err)
	}

	uc.events.Dispatch(ctx, voucher.NewPurchaseDeletedEvent(id, uc.clock.Now()))
	return nil
}
