package voucher

import "github.com/jackyeh168/voucher_ledger/src/internal/domain/shared"

// PurchaseMarker 是 PurchaseID 的標記類型
type PurchaseMarker struct{}

// PurchaseID 購買記錄的唯一標識符（由儲存層於新增時產生）
type PurchaseID = shared.EntityID[PurchaseMarker]

// NewPurchaseID 生成新的購買記錄 ID（UUID v4）
func NewPurchaseID() PurchaseID {
	return shared.NewEntityID[PurchaseMarker]()
}

// PurchaseIDFromString 從字串解析購買記錄 ID
//
// 解析失敗返回 InvalidInput（field = id）。
func PurchaseIDFromString(s string) (PurchaseID, error) {
	return shared.EntityIDFromString[PurchaseMarker](
		s,
		ErrInvalidInput.WithContext("field", "id", "reason", "must be a valid id"),
	)
}

// SettingsKey 設定單例的固定鍵
const SettingsKey = "current"
