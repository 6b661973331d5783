package persistence

import (
	"sync"
	"time"

	"github.com/jackyeh168/voucher_ledger/src/internal/domain/shared"
)

// ServerClock 儲存層的權威時鐘
//
// Next() 返回微秒精度、嚴格遞增的 UTC 時間，可直接作為排序鍵；
// 同一微秒內多次新增時自動往後推一微秒。
// 年份以設定的時區計算。
type ServerClock struct {
	mu    sync.Mutex
	clock shared.Clock
	loc   *time.Location
	last  time.Time
}

// NewServerClock 創建儲存層時鐘
func NewServerClock(clock shared.Clock, loc *time.Location) *ServerClock {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ServerClock{clock: clock, loc: loc}
}

// Next 返回下一個時間戳
func (c *ServerClock) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now().UTC().Truncate(time.Microsecond)
	if !now.After(c.last) {
		now = c.last.Add(time.Microsecond)
	}
	c.last = now
	return now
}

// YearOf 時間點在儲存層時區的年份
func (c *ServerClock) YearOf(t time.Time) int {
	return t.In(c.loc).Year()
}

// Location 儲存層時區
func (c *ServerClock) Location() *time.Location {
	return c.loc
}
