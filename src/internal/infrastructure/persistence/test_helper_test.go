package persistence

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackyeh168/voucher_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/voucher_ledger/src/internal/domain/voucher"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ===========================
// 測試輔助函數
// ===========================

// setupTestDB 創建測試用的 SQLite in-memory 資料庫
//
// 每個測試使用獨立命名的 shared-cache 資料庫，並限制單一連接，
// 讓事務內外的查詢看到同一份資料。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// testClock 固定起點的儲存層時鐘（JST 年份）
func testClock(t *testing.T, start string) (*ServerClock, *shared.FixedClock) {
	t.Helper()

	ts, err := time.Parse(time.RFC3339, start)
	if err != nil {
		t.Fatalf("bad time %q: %v", start, err)
	}
	fixed := shared.NewFixedClock(ts)
	return NewServerClock(fixed, time.FixedZone("JST", 9*60*60)), fixed
}

func yen(t *testing.T, v int64) voucher.Yen {
	t.Helper()
	y, err := voucher.NewYen(v)
	if err != nil {
		t.Fatalf("bad yen %d: %v", v, err)
	}
	return y
}
