package voucher

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// ===========================
// Yen 金額值對象
// ===========================

// MaxYen 單一金額上限（防止溢位與誤輸入）
const MaxYen int64 = 1_000_000_000

// Yen 金額值對象（整數日圓，>= 0）
// 設計原則：值對象不可變、自我驗證
type Yen struct {
	value int64
}

// NewYen 建構函數（checked 版本），金額必須 >= 0
func NewYen(value int64) (Yen, error) {
	if value < 0 {
		return Yen{}, NewInvalidInput("amount", "must not be negative")
	}
	if value > MaxYen {
		return Yen{}, NewInvalidInput("amount", "exceeds maximum amount")
	}
	return Yen{value: value}, nil
}

// newYenUnchecked 內部建構函數，調用者保證 0 <= value <= MaxYen
func newYenUnchecked(value int64) Yen {
	return Yen{value: value}
}

// ParsePrice 解析購買金額：必須是正整數
func ParsePrice(raw string) (Yen, error) {
	v, err := parseWholeYen("price", raw)
	if err != nil {
		return Yen{}, err
	}
	if v <= 0 {
		return Yen{}, NewInvalidInput("price", "must be at least 1")
	}
	return newYenUnchecked(v), nil
}

// ParseBalance 解析餘額：必須是非負整數
func ParseBalance(raw string) (Yen, error) {
	v, err := parseWholeYen("balance", raw)
	if err != nil {
		return Yen{}, err
	}
	if v < 0 {
		return Yen{}, NewInvalidInput("balance", "must not be negative")
	}
	return newYenUnchecked(v), nil
}

// parseWholeYen 以 decimal 解析，拒絕非數字與小數
//
// 接受千分位逗號（"1,000"）與前後空白。
func parseWholeYen(field, raw string) (int64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0, NewInvalidInput(field, "is required")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, NewInvalidInput(field, "must be a number")
	}
	if !d.IsInteger() {
		return 0, NewInvalidInput(field, "must be a whole number")
	}
	if d.Abs().GreaterThan(decimal.NewFromInt(MaxYen)) {
		return 0, NewInvalidInput(field, "exceeds maximum amount")
	}
	return d.IntPart(), nil
}

// Value 獲取金額
func (y Yen) Value() int64 {
	return y.value
}

// Subtract 相減；結果為負時返回 ErrInsufficientBalance
func (y Yen) Subtract(other Yen) (Yen, error) {
	if y.value < other.value {
		return Yen{}, ErrInsufficientBalance.WithContext(
			"requested", other.value,
			"available", y.value,
		)
	}
	return newYenUnchecked(y.value - other.value), nil
}

// GreaterThan 判斷是否大於另一個金額
func (y Yen) GreaterThan(other Yen) bool {
	return y.value > other.value
}

// Equals 比較兩個金額是否相等
func (y Yen) Equals(other Yen) bool {
	return y.value == other.value
}

// ===========================
// CalendarDate 日曆日期
// ===========================

// DateLayout 日曆日期格式
const DateLayout = "2006-01-02"

// CalendarDate 使用者選擇的日曆日期（不含時區）
//
// 購買記錄的 date 只是標籤，排序一律使用 createdAt。
type CalendarDate struct {
	year  int
	month time.Month
	day   int
}

// ParseCalendarDate 解析 YYYY-MM-DD
func ParseCalendarDate(field, raw string) (CalendarDate, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return CalendarDate{}, NewInvalidInput(field, "is required")
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return CalendarDate{}, NewInvalidInput(field, "must be a valid date (YYYY-MM-DD)")
	}
	return CalendarDate{year: t.Year(), month: t.Month(), day: t.Day()}, nil
}

// DateOf 取得時間點在指定時區的日期
func DateOf(t time.Time, loc *time.Location) CalendarDate {
	y, m, d := t.In(loc).Date()
	return CalendarDate{year: y, month: m, day: d}
}

// StartOfDay 該日期在指定時區的 00:00
func (d CalendarDate) StartOfDay(loc *time.Location) time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc).UTC()
}

// IsZero 是否為零值
func (d CalendarDate) IsZero() bool {
	return d.year == 0 && d.month == 0 && d.day == 0
}

// String 格式化為 YYYY-MM-DD
func (d CalendarDate) String() string {
	if d.IsZero() {
		return ""
	}
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC).Format(DateLayout)
}

// ===========================
// 時間點正規化
// ===========================

// instantLayouts 可接受的時間戳格式
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
}

// NormalizeInstant 將日期或時間戳字串正規化為單一 UTC 時間點
//
// - "YYYY-MM-DD"：該日在 loc 的 00:00
// - RFC 3339 / SQL 時間戳：依字串內的時區；無時區者視為 loc
//
// 業務邏輯只處理正規化後的 time.Time，不再判斷原始格式。
func NormalizeInstant(field, raw string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, NewInvalidInput(field, "is required")
	}
	if len(s) == len(DateLayout) {
		d, err := ParseCalendarDate(field, s)
		if err != nil {
			return time.Time{}, err
		}
		return d.StartOfDay(loc), nil
	}
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, NewInvalidInput(field, "must be a date or RFC 3339 timestamp")
}

// ===========================
// 文字欄位
// ===========================

const (
	// MaxItemLength 商品名稱上限（字元數）
	MaxItemLength = 100
	// MaxNoteLength 備註上限（字元數）
	MaxNoteLength = 50
)

// normalizeText 去除前後空白並檢查長度
func normalizeText(field, raw string, required bool, max int) (string, error) {
	s := strings.TrimSpace(raw)
	if required && s == "" {
		return "", NewInvalidInput(field, "is required")
	}
	if !utf8.ValidString(s) {
		return "", NewInvalidInput(field, "must be valid UTF-8")
	}
	if utf8.RuneCountInString(s) > max {
		return "", NewInvalidInput(field, "is too long")
	}
	return s, nil
}
