package shared

import (
	"github.com/google/uuid"
)

// ===========================
// EntityID[T] 泛型實體 ID
// ===========================

// EntityID 泛型實體 ID 值對象
//
// T 為標記類型，使不同實體的 ID 成為不同類型（PurchaseID ≠ EventID）。
//
// 使用範例：
//
//	type PurchaseMarker struct{}
//	type PurchaseID = shared.EntityID[PurchaseMarker]
//	id := shared.NewEntityID[PurchaseMarker]()
type EntityID[T any] struct {
	value uuid.UUID
}

// NewEntityID 生成新的實體 ID（UUID v4）
func NewEntityID[T any]() EntityID[T] {
	return EntityID[T]{value: uuid.New()}
}

// EntityIDFromString 從字串解析實體 ID
//
// 解析失敗時返回 errTemplate；若 errTemplate 支持 WithContext，附帶輸入與解析錯誤。
// 由調用者提供錯誤，shared 層不依賴具體業務錯誤。
func EntityIDFromString[T any](s string, errTemplate error) (EntityID[T], error) {
	id, err := uuid.Parse(s)
	if err != nil {
		if domainErr, ok := errTemplate.(interface {
			WithContext(keyValues ...interface{}) error
		}); ok {
			return EntityID[T]{}, domainErr.WithContext(
				"input", s,
				"parse_error", err.Error(),
			)
		}
		return EntityID[T]{}, errTemplate
	}
	return EntityID[T]{value: id}, nil
}

// String 轉換為字串表示（小寫 UUID）
func (e EntityID[T]) String() string {
	return e.value.String()
}

// Equals 比較兩個 EntityID 是否相等
func (e EntityID[T]) Equals(other EntityID[T]) bool {
	return e.value == other.value
}

// IsEmpty 判斷是否為空 ID（零值）
func (e EntityID[T]) IsEmpty() bool {
	return e.value == uuid.Nil
}

// MarshalText 實現 encoding.TextMarshaler（JSON 序列化為 UUID 字串）
func (e EntityID[T]) MarshalText() ([]byte, error) {
	return []byte(e.value.String()), nil
}

// UnmarshalText 實現 encoding.TextUnmarshaler
func (e *EntityID[T]) UnmarshalText(text []byte) error {
	id, err := uuid.ParseBytes(text)
	if err != nil {
		return err
	}
	e.value = id
	return nil
}
