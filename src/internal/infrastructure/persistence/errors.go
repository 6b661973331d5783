package persistence

import (
	"errors"

	"github.com/jackyeh168/voucher_ledger/src/internal/domain/voucher"
	"gorm.io/gorm"
)

// mapError 將 GORM 錯誤映射為領域錯誤
//
// - gorm.ErrRecordNotFound → notFound（由調用者指定）
// - 已是 DomainError → 原樣返回
// - 其他（含 context 逾時）→ ErrStoreError
func mapError(op string, err error, notFound error) error {
	if err == nil {
		return nil
	}
	if notFound != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	var de *voucher.DomainError
	if errors.As(err, &de) {
		return err
	}
	return voucher.NewStoreError(op, err)
}
