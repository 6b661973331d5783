package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackyeh168/voucher_ledger/src/internal/domain/voucher"
)

// 介面層錯誤
var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid_request")
)

type errorPayload struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Retryable bool   `json:"retryable"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// ErrorHandlingMiddleware 將 handler 記錄的最後一個錯誤轉為 JSON 回應
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

// AbortWithError 記錄錯誤並中止後續 handler
func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

// mapError 錯誤 → HTTP 狀態碼
//
// 業務規則錯誤（需修正輸入）與暫時性錯誤（可重試）以 retryable 區分。
func mapError(err error) (int, errorPayload) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{Code: "UNAUTHORIZED", Message: "admin key required"}
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, errorPayload{Code: "INVALID_REQUEST", Message: "malformed request body"}
	}

	code, ok := voucher.CodeOf(err)
	if !ok {
		return http.StatusInternalServerError, errorPayload{Code: "INTERNAL_ERROR", Message: "internal server error"}
	}

	var de *voucher.DomainError
	errors.As(err, &de)
	payload := errorPayload{
		Code:      string(code),
		Message:   de.Message,
		Retryable: voucher.IsRetryable(err),
	}

	switch code {
	case voucher.ErrCodeInvalidInput:
		payload.Field, payload.Reason, _ = voucher.InvalidInputDetail(err)
		return http.StatusBadRequest, payload
	case voucher.ErrCodeNotConfigured, voucher.ErrCodeNotFound:
		return http.StatusNotFound, payload
	case voucher.ErrCodeConflict:
		return http.StatusConflict, payload
	case voucher.ErrCodeVoucherExpired, voucher.ErrCodeInsufficientBalance:
		return http.StatusUnprocessableEntity, payload
	case voucher.ErrCodeStoreError:
		payload.Message = "store unavailable, try again"
		return http.StatusServiceUnavailable, payload
	default:
		return http.StatusInternalServerError, payload
	}
}
