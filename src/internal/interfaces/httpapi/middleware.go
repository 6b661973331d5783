package httpapi

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackyeh168/voucher_ledger/src/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

// HeaderAdminKey 管理員金鑰 header
const HeaderAdminKey = "X-Admin-Key"

// RequestLogger 記錄每個請求並更新 HTTP 指標
func RequestLogger(log *zap.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.Writer.Status()
		route := c.FullPath()
		if m != nil {
			m.ObserveHTTP(c.Request.Method, route, status, elapsed)
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
		}
		if err := c.Errors.Last(); err != nil {
			fields = append(fields, zap.Error(err.Err))
		}

		switch {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// AdminKey 以共享金鑰保護管理員路由（X-Admin-Key 或 ?key=）
//
// 只是防止誤操作的簡單門檻，不是身分驗證。金鑰未設定時拒絕所有管理員請求。
func AdminKey(expected string) gin.HandlerFunc {
	want := []byte(expected)
	return func(c *gin.Context) {
		got := strings.TrimSpace(c.GetHeader(HeaderAdminKey))
		if got == "" {
			got = strings.TrimSpace(c.Query("key"))
		}
		if len(want) == 0 || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}
