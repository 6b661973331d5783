package voucher

import (
	"errors"
	"fmt"
)

// ===========================
// 錯誤代碼定義
// ===========================

// ErrorCode 錯誤代碼類型
type ErrorCode string

// 錯誤代碼常量
const (
	// 業務規則
	ErrCodeNotConfigured       ErrorCode = "VOUCHER_NOT_CONFIGURED"
	ErrCodeVoucherExpired      ErrorCode = "VOUCHER_EXPIRED"
	ErrCodeInvalidInput        ErrorCode = "INVALID_INPUT"
	ErrCodeInsufficientBalance ErrorCode = "BALANCE_INSUFFICIENT"

	// 並發與儲存
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeStoreError    ErrorCode = "STORE_ERROR"
	ErrCodeNotFound      ErrorCode = "PURCHASE_NOT_FOUND"
	ErrCodeCorruptRecord ErrorCode = "RECORD_CORRUPTED"
)

// ===========================
// DomainError 結構
// ===========================

// DomainError 領域錯誤
//
// 設計原則：
// 1. 結構化錯誤代碼（展示層據此區分「修正輸入」與「稍後重試」）
// 2. 支持上下文信息（如 InvalidInput 的 field / reason）
// 3. 不可變性（WithContext / WithCause 返回新實例）
type DomainError struct {
	Code    ErrorCode
	Message string
	Context map[string]interface{}

	cause error
}

// Error 實現 error 接口
func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if len(e.Context) > 0 {
		msg = fmt.Sprintf("%s (context: %+v)", msg, e.Context)
	}
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// WithContext 添加上下文信息（返回新的錯誤實例，保持不可變性）
func (e *DomainError) WithContext(keyValues ...interface{}) error {
	if len(keyValues)%2 != 0 {
		panic("WithContext requires even number of arguments (key-value pairs)")
	}

	ctx := make(map[string]interface{}, len(e.Context)+len(keyValues)/2)
	for k, v := range e.Context {
		ctx[k] = v
	}
	for i := 0; i < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			panic(fmt.Sprintf("context key must be string, got %T", keyValues[i]))
		}
		ctx[key] = keyValues[i+1]
	}

	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Context: ctx,
		cause:   e.cause,
	}
}

// WithCause 附加底層錯誤（返回新實例）
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Context: e.Context,
		cause:   cause,
	}
}

// Unwrap 返回底層錯誤，供 errors.Is / errors.As 穿透
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is 實現 errors.Is 接口（以錯誤代碼判斷）
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// ===========================
// 預定義錯誤
// ===========================

var (
	// ErrNotConfigured 尚未設定餘額（不是 I/O 錯誤）
	ErrNotConfigured = &DomainError{
		Code:    ErrCodeNotConfigured,
		Message: "尚未設定餘額",
	}

	// ErrVoucherExpired 有效期限已過
	ErrVoucherExpired = &DomainError{
		Code:    ErrCodeVoucherExpired,
		Message: "有效期限已過",
	}

	// ErrInvalidInput 輸入無效（上下文含 field、reason）
	ErrInvalidInput = &DomainError{
		Code:    ErrCodeInvalidInput,
		Message: "輸入無效",
	}

	// ErrInsufficientBalance 餘額不足
	ErrInsufficientBalance = &DomainError{
		Code:    ErrCodeInsufficientBalance,
		Message: "餘額不足",
	}

	// ErrConflict 讀取後餘額已被其他寫入者變更，需重新讀取後重試
	ErrConflict = &DomainError{
		Code:    ErrCodeConflict,
		Message: "餘額已被變更，請重新讀取後重試",
	}

	// ErrStoreError 底層儲存失敗
	ErrStoreError = &DomainError{
		Code:    ErrCodeStoreError,
		Message: "儲存操作失敗",
	}

	// ErrPurchaseNotFound 購買記錄不存在
	ErrPurchaseNotFound = &DomainError{
		Code:    ErrCodeNotFound,
		Message: "購買記錄不存在",
	}

	// ErrCorruptedRecord 儲存中的資料違反不變條件
	ErrCorruptedRecord = &DomainError{
		Code:    ErrCodeCorruptRecord,
		Message: "儲存資料損壞",
	}
)

// ===========================
// 輔助函數
// ===========================

// NewInvalidInput 建立欄位級的輸入錯誤
func NewInvalidInput(field, reason string) error {
	return ErrInvalidInput.WithContext("field", field, "reason", reason)
}

// NewStoreError 包裝底層 I/O 錯誤
func NewStoreError(op string, cause error) error {
	return ErrStoreError.WithCause(cause).WithContext("op", op)
}

// InvalidInputDetail 取出 InvalidInput 的欄位與原因
func InvalidInputDetail(err error) (field, reason string, ok bool) {
	var de *DomainError
	if !errors.As(err, &de) || de.Code != ErrCodeInvalidInput {
		return "", "", false
	}
	field, _ = de.Context["field"].(string)
	reason, _ = de.Context["reason"].(string)
	return field, reason, true
}

// CodeOf 返回錯誤鏈中第一個 DomainError 的代碼
func CodeOf(err error) (ErrorCode, bool) {
	var de *DomainError
	if !errors.As(err, &de) {
		return "", false
	}
	return de.Code, true
}

// IsRetryable 判斷是否為可重試錯誤
//
// Conflict 與 StoreError 屬於暫時性失敗（重新讀取後重試）；
// 其餘業務規則錯誤需修正輸入，重試無效。
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrStoreError)
}
