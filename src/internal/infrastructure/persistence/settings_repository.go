package persistence

import (
	"context"

	"github.com/jackyeh168/voucher_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/voucher_ledger/src/internal/domain/voucher"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ===========================
// GORMSettingsRepository
// ===========================

// GORMSettingsRepository GORM 實作的設定單例倉儲
//
// 職責：
// - Domain ↔ GORM 轉換（mapper.go）
// - 以 ServerClock 指派所有時間欄位
// - 映射 GORM 錯誤為 Domain 錯誤
type GORMSettingsRepository struct {
	db    *gorm.DB
	clock *ServerClock
}

// NewSettingsRepository 創建設定倉儲
func NewSettingsRepository(db *gorm.DB, clock *ServerClock) *GORMSettingsRepository {
	return &GORMSettingsRepository{db: db, clock: clock}
}

var _ voucher.SettingsRepository = (*GORMSettingsRepository)(nil)

// FindCurrent 讀取目前設定；不存在時返回 ErrNotConfigured
func (r *GORMSettingsRepository) FindCurrent(ctx context.Context, tx shared.TransactionContext) (*voucher.Settings, error) {
	db := getDB(ctx, r.db, tx)

	var model SettingsModel
	if err := db.First(&model, "id = ?", voucher.SettingsKey).Error; err != nil {
		return nil, mapError("settings.find", err, voucher.ErrNotConfigured)
	}

	return settingsToDomain(&model)
}

// Replace 整筆覆寫設定
//
// 實作：單一 UPSERT（ON CONFLICT (id) DO UPDATE），version 於衝突時遞增，
// 之後在同一連接讀回。IssuedAt 未提供時使用 ServerClock 時間。
func (r *GORMSettingsRepository) Replace(
	ctx context.Context,
	tx shared.TransactionContext,
	draft voucher.SettingsDraft,
) (*voucher.Settings, error) {
	db := getDB(ctx, r.db, tx)

	now := r.clock.Next()
	issuedAt := now
	if draft.IssuedAt != nil {
		issuedAt = draft.IssuedAt.UTC()
	}
	model := SettingsModel{
		ID:        voucher.SettingsKey,
		Balance:   draft.Balance.Value(),
		IssuedAt:  issuedAt,
		ExpireAt:  nil,
		Year:      r.clock.YearOf(now),
		UpdatedAt: now,
		Version:   1,
	}
	if draft.ExpireAt != nil {
		t := draft.ExpireAt.UTC()
		model.ExpireAt = &t
	}

	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"balance":    model.Balance,
			"issued_at":  model.IssuedAt,
			"expire_at":  model.ExpireAt,
			"year":       model.Year,
			"updated_at": model.UpdatedAt,
			"version":    gorm.Expr("voucher_settings.version + 1"),
		}),
	}).Create(&model).Error
	if err != nil {
		return nil, mapError("settings.replace", err, nil)
	}

	return r.FindCurrent(ctx, tx)
}

// UpdateBalance 僅更新 balance（與 updatedAt / year / version）
func (r *GORMSettingsRepository) UpdateBalance(ctx context.Context, tx shared.TransactionContext, balance voucher.Yen) error {
	db := getDB(ctx, r.db, tx)

	result := db.Model(&SettingsModel{}).
		Where("id = ?", voucher.SettingsKey).
		Updates(r.balanceAssignments(balance))
	if result.Error != nil {
		return mapError("settings.update_balance", result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return voucher.ErrNotConfigured
	}
	return nil
}

// CompareAndSetBalance 條件更新餘額
//
// WHERE balance = 讀取值 AND version = 讀取版本；影響 0 列表示期間已有其他寫入 → ErrConflict。
func (r *GORMSettingsRepository) CompareAndSetBalance(
	ctx context.Context,
	tx shared.TransactionContext,
	expectedBalance voucher.Yen,
	expectedVersion int64,
	balance voucher.Yen,
) error {
	db := getDB(ctx, r.db, tx)

	result := db.Model(&SettingsModel{}).
		Where("id = ? AND balance = ? AND version = ?", voucher.SettingsKey, expectedBalance.Value(), expectedVersion).
		Updates(r.balanceAssignments(balance))
	if result.Error != nil {
		return mapError("settings.compare_and_set_balance", result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return voucher.ErrConflict.WithContext(
			"expected_balance", expectedBalance.Value(),
			"expected_version", expectedVersion,
		)
	}
	return nil
}

func (r *GORMSettingsRepository) balanceAssignments(balance voucher.Yen) map[string]interface{} {
	now := r.clock.Next()
	return map[string]interface{}{
		"balance":    balance.Value(),
		"updated_at": now,
		"year":       r.clock.YearOf(now),
		"version":    gorm.Expr("version + 1"),
	}
}
