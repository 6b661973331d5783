package shared

import "time"

// Clock 時間來源
//
// Repository 持有的 Clock 是唯一權威時鐘（伺服器時間），
// 避免管理員與使用者裝置之間的時鐘偏差。
type Clock interface {
	Now() time.Time
}

// SystemClock 使用系統時間（UTC）
type SystemClock struct{}

// Now 實現 Clock 介面
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock 固定時間，測試用
type FixedClock struct {
	now time.Time
}

// NewFixedClock 創建固定時鐘
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{now: t.UTC()}
}

// Now 實現 Clock 介面
func (c *FixedClock) Now() time.Time {
	return c.now
}

// Advance 推進時間
func (c *FixedClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// Set 設定為指定時間
func (c *FixedClock) Set(t time.Time) {
	c.now = t.UTC()
}
