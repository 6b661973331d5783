package persistence

import (
	"time"
)

// ===========================
// GORM Models
// ===========================

// SettingsModel 設定單例資料表模型
//
// 資料庫約束：
// - id: 固定為 "current"
// - balance >= 0（CHECK 約束；業務上由 Use Case 保證）
// - version: 每次寫入遞增，供條件更新使用
//
// 時間欄位由 ServerClock 指派，關閉 GORM 自動時間戳。
type SettingsModel struct {
	ID        string     `gorm:"column:id;type:varchar(16);primaryKey"`
	Balance   int64      `gorm:"column:balance;not null;default:0;check:balance >= 0"`
	IssuedAt  time.Time  `gorm:"column:issued_at;not null"`
	ExpireAt  *time.Time `gorm:"column:expire_at"`
	Year      int        `gorm:"column:year;not null"`
	UpdatedAt time.Time  `gorm:"column:updated_at;not null;autoUpdateTime:false"`
	Version   int64      `gorm:"column:version;not null;default:1"`
}

// TableName 指定資料表名稱
func (SettingsModel) TableName() string {
	return "voucher_settings"
}

// PurchaseModel 購買記錄資料表模型
//
// created_at 為唯一排序鍵（降序索引查詢）；purchase_date 只是使用者填寫的日期。
type PurchaseModel struct {
	ID           string     `gorm:"column:id;type:varchar(36);primaryKey"`
	Item         string     `gorm:"column:item;type:varchar(400);not null"`
	Price        int64      `gorm:"column:price;not null;check:price > 0"`
	PurchaseDate string     `gorm:"column:purchase_date;type:varchar(10);not null"`
	Note         string     `gorm:"column:note;type:varchar(200);not null;default:''"`
	Year         int        `gorm:"column:year;not null"`
	CreatedAt    time.Time  `gorm:"column:created_at;not null;index;autoCreateTime:false"`
	UpdatedAt    *time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
}

// TableName 指定資料表名稱
func (PurchaseModel) TableName() string {
	return "voucher_purchases"
}

// AllModels 需要遷移的模型
func AllModels() []interface{} {
	return []interface{}{&SettingsModel{}, &PurchaseModel{}}
}
