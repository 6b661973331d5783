package voucher

import "time"

// ===========================
// 有效期限判斷（純函數）
// ===========================

// day 一天
const day = 24 * time.Hour

// IsExpired 判斷是否已過期
//
// expireAt 為 nil 表示永不過期；否則 expireAt < now 時為過期。
// expireAt == now 時尚未過期。
func IsExpired(expireAt *time.Time, now time.Time) bool {
	if expireAt == nil {
		return false
	}
	return expireAt.Before(now)
}

// DaysUntilExpiry 距離到期的天數（無條件進位）
//
// 返回：
//   - nil：永不過期
//   - ceil((expireAt - now) / 1 day)：到期當下為 0，過期後為 0 或負數
func DaysUntilExpiry(expireAt *time.Time, now time.Time) *int {
	if expireAt == nil {
		return nil
	}

	diff := expireAt.Sub(now)
	days := diff / day
	// Go 的整數除法向零截斷：正數需要進位，負數截斷即為 ceil
	if diff%day > 0 {
		days++
	}

	n := int(days)
	return &n
}
