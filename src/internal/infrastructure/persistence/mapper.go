package persistence

import (
	"github.com/jackyeh168/voucher_ledger/src/internal/domain/voucher"
)

// ===========================
// Domain ↔ GORM Model 轉換函數
// ===========================

// settingsToDomain 將 GORM Model 轉換為 Settings 聚合
//
// 資料庫讀出的時間一律正規化為 UTC；ReconstructSettings 會驗證不變條件。
func settingsToDomain(m *SettingsModel) (*voucher.Settings, error) {
	return voucher.ReconstructSettings(
		m.Balance,
		m.IssuedAt.UTC(),
		m.ExpireAt,
		m.Year,
		m.UpdatedAt.UTC(),
		m.Version,
	)
}

// purchaseToDomain 將 GORM Model 轉換為 Purchase
func purchaseToDomain(m *PurchaseModel) (*voucher.Purchase, error) {
	id, err := voucher.PurchaseIDFromString(m.ID)
	if err != nil {
		return nil, voucher.ErrCorruptedRecord.WithContext(
			"purchase_id", m.ID,
			"reason", "invalid UUID format in database",
		)
	}

	return voucher.ReconstructPurchase(
		id,
		m.Item,
		m.Price,
		m.PurchaseDate,
		m.Note,
		m.CreatedAt.UTC(),
		m.Year,
		m.UpdatedAt,
	)
}

// purchasesToDomain 批次轉換，保持順序
func purchasesToDomain(models []PurchaseModel) ([]*voucher.Purchase, error) {
	out := make([]*voucher.Purchase, 0, len(models))
	for i := range models {
		p, err := purchaseToDomain(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
