package voucher

import (
	"context"

	"github.com/jackyeh168/voucher_ledger/src/internal/domain/shared"
)

// ===========================
// Repository 介面
// ===========================

// SettingsRepository 設定單例倉儲介面
//
// 設計原則：
// 1. 依賴倒置：Domain Layer 定義介面，Infrastructure Layer 實作
// 2. 儲存層持有權威時鐘：發行時間、更新時間皆使用儲存層時間
// 3. 所有 I/O 失敗以 ErrStoreError 返回，不重試
type SettingsRepository interface {
	// FindCurrent 讀取目前設定
	// 錯誤：ErrNotConfigured（尚無設定，非 I/O 錯誤）
	FindCurrent(ctx context.Context, tx shared.TransactionContext) (*Settings, error)

	// Replace 整筆覆寫設定
	// IssuedAt 為 nil 時使用儲存層目前時間；重設 year、updatedAt，遞增 version
	Replace(ctx context.Context, tx shared.TransactionContext, draft SettingsDraft) (*Settings, error)

	// UpdateBalance 僅更新 balance 與 updatedAt，不影響 issuedAt / expireAt
	// 錯誤：ErrNotConfigured
	UpdateBalance(ctx context.Context, tx shared.TransactionContext, balance Yen) error

	// CompareAndSetBalance 條件更新：僅當 balance 與 version 仍為讀取時的值才寫入
	// 錯誤：ErrConflict（已被其他寫入者變更）
	CompareAndSetBalance(
		ctx context.Context,
		tx shared.TransactionContext,
		expectedBalance Yen,
		expectedVersion int64,
		balance Yen,
	) error
}

// PurchaseRepository 購買記錄倉儲介面
type PurchaseRepository interface {
	// List 以 createdAt 降序返回全部記錄（單一查詢，不分頁）
	List(ctx context.Context, tx shared.TransactionContext) ([]*Purchase, error)

	// Add 新增記錄，由儲存層指派 ID 與 createdAt
	Add(ctx context.Context, tx shared.TransactionContext, draft PurchaseDraft) (*Purchase, error)

	// Update 編輯記錄內容，updatedAt 由儲存層指派（不影響 createdAt 與餘額）
	// 錯誤：ErrPurchaseNotFound
	Update(ctx context.Context, tx shared.TransactionContext, id PurchaseID, draft PurchaseDraft) (*Purchase, error)

	// Delete 永久刪除記錄
	// 錯誤：ErrPurchaseNotFound（記錄不存在時不視為 no-op）
	Delete(ctx context.Context, tx shared.TransactionContext, id PurchaseID) error
}
