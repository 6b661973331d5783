package persistence

import (
	"context"
	"errors"

	"github.com/jackyeh168/voucher_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/voucher_ledger/src/internal/domain/voucher"
	"gorm.io/gorm"
)

// ===========================
// GORM TransactionContext 實作
// ===========================

// gormTransactionContext GORM 事務上下文實作
// 封裝 *gorm.DB，避免洩漏到 Domain Layer
type gormTransactionContext struct {
	db *gorm.DB
}

// NewGORMTransactionContext 創建 GORM 事務上下文
func NewGORMTransactionContext(db *gorm.DB) shared.TransactionContext {
	return &gormTransactionContext{db: db}
}

// GetDB 獲取 GORM DB 連接（僅供 Infrastructure Layer 內部使用）
func (c *gormTransactionContext) GetDB() *gorm.DB {
	return c.db
}

// ===========================
// GORM TransactionManager 實作
// ===========================

// GORMTransactionManager 以 gorm.DB.Transaction 實作 shared.TransactionManager
//
// - fn 返回 error：回滾，原樣返回該 error
// - fn panic：回滾後重新 panic
// - 開始或提交事務失敗：返回 ErrStoreError
type GORMTransactionManager struct {
	db *gorm.DB
}

// NewGORMTransactionManager 創建事務管理器
func NewGORMTransactionManager(db *gorm.DB) *GORMTransactionManager {
	return &GORMTransactionManager{db: db}
}

// InTransaction 實現 shared.TransactionManager
func (m *GORMTransactionManager) InTransaction(ctx context.Context, fn func(tx shared.TransactionContext) error) error {
	var fnErr error
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(NewGORMTransactionContext(tx))
		return fnErr
	})
	if err == nil {
		return nil
	}
	if fnErr != nil && errors.Is(err, fnErr) {
		return fnErr
	}
	return voucher.NewStoreError("transaction", err)
}

// getDB 從事務上下文取得 DB；tx 為 nil 時使用 auto-commit 連接
func getDB(ctx context.Context, db *gorm.DB, tx shared.TransactionContext) *gorm.DB {
	if tx != nil {
		if txCtx, ok := tx.(*gormTransactionContext); ok {
			return txCtx.GetDB().WithContext(ctx)
		}
	}
	return db.WithContext(ctx)
}
