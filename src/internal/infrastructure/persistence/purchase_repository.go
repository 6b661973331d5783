package persistence

import (
	"context"

	"github.com/jackyeh168/voucher_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/voucher_ledger/src/internal/domain/voucher"
	"gorm.io/gorm"
)

// ===========================
// GORMPurchaseRepository
// ===========================

// GORMPurchaseRepository GORM 實作的購買記錄倉儲
type GORMPurchaseRepository struct {
	db    *gorm.DB
	clock *ServerClock
}

// NewPurchaseRepository 創建購買記錄倉儲
func NewPurchaseRepository(db *gorm.DB, clock *ServerClock) *GORMPurchaseRepository {
	return &GORMPurchaseRepository{db: db, clock: clock}
}

var _ voucher.PurchaseRepository = (*GORMPurchaseRepository)(nil)

// List 以 created_at 降序讀取全部記錄
func (r *GORMPurchaseRepository) List(ctx context.Context, tx shared.TransactionContext) ([]*voucher.Purchase, error) {
	db := getDB(ctx, r.db, tx)

	var models []PurchaseModel
	if err := db.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, mapError("purchases.list", err, nil)
	}

	return purchasesToDomain(models)
}

// Add 新增購買記錄；ID 與 created_at 由儲存層指派
func (r *GORMPurchaseRepository) Add(
	ctx context.Context,
	tx shared.TransactionContext,
	draft voucher.PurchaseDraft,
) (*voucher.Purchase, error) {
	db := getDB(ctx, r.db, tx)

	now := r.clock.Next()
	model := PurchaseModel{
		ID:           voucher.NewPurchaseID().String(),
		Item:         draft.Item(),
		Price:        draft.Price().Value(),
		PurchaseDate: draft.Date().String(),
		Note:         draft.Note(),
		Year:         r.clock.YearOf(now),
		CreatedAt:    now,
	}

	if err := db.Create(&model).Error; err != nil {
		return nil, mapError("purchases.add", err, nil)
	}

	return purchaseToDomain(&model)
}

// Update 編輯記錄內容（created_at 不變）
func (r *GORMPurchaseRepository) Update(
	ctx context.Context,
	tx shared.TransactionContext,
	id voucher.PurchaseID,
	draft voucher.PurchaseDraft,
) (*voucher.Purchase, error) {
	db := getDB(ctx, r.db, tx)

	now := r.clock.Next()
	result := db.Model(&PurchaseModel{}).
		Where("id = ?", id.String()).
		Updates(map[string]interface{}{
			"item":          draft.Item(),
			"price":         draft.Price().Value(),
			"purchase_date": draft.Date().String(),
			"note":          draft.Note(),
			"updated_at":    now,
		})
	if result.Error != nil {
		return nil, mapError("purchases.update", result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return nil, voucher.ErrPurchaseNotFound.WithContext("purchase_id", id.String())
	}

	var model PurchaseModel
	if err := db.First(&model, "id = ?", id.String()).Error; err != nil {
		return nil, mapError("purchases.update", err, voucher.ErrPurchaseNotFound.WithContext("purchase_id", id.String()))
	}
	return purchaseToDomain(&model)
}

// Delete 永久刪除記錄；不存在時返回 ErrPurchaseNotFound
func (r *GORMPurchaseRepository) Delete(ctx context.Context, tx shared.TransactionContext, id voucher.PurchaseID) error {
	db := getDB(ctx, r.db, tx)

	result := db.Where("id = ?", id.String()).Delete(&PurchaseModel{})
	if result.Error != nil {
		return mapError("purchases.delete", result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return voucher.ErrPurchaseNotFound.WithContext("purchase_id", id.String())
	}
	return nil
}
