package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	appvoucher "github.com/jackyeh168/voucher_ledger/src/internal/application/voucher"
	"github.com/jackyeh168/voucher_ledger/src/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

// Handlers 介面層依賴的 Use Case
type Handlers struct {
	GetSettings     *appvoucher.GetSettingsUseCase
	ListPurchases   *appvoucher.ListPurchasesUseCase
	RecordPurchase  *appvoucher.RecordPurchaseUseCase
	ReplaceSettings *appvoucher.ReplaceSettingsUseCase
	ResetBalance    *appvoucher.ResetBalanceUseCase
	UpdatePurchase  *appvoucher.UpdatePurchaseUseCase
	DeletePurchase  *appvoucher.DeletePurchaseUseCase
}

// Config 介面層設定
type Config struct {
	AdminKey     string
	StoreTimeout time.Duration
}

// Server JSON HTTP API
type Server struct {
	engine  *gin.Engine
	h       Handlers
	cfg     Config
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewServer 建立路由；m 可為 nil（不提供 /metrics）
func NewServer(h Handlers, cfg Config, m *metrics.Metrics, log *zap.Logger) *Server {
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = appvoucher.DefaultStoreTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		engine:  gin.New(),
		h:       h,
		cfg:     cfg,
		metrics: m,
		log:     log.Named("http"),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.engine
	r.Use(gin.Recovery())
	r.Use(RequestLogger(s.log, s.metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := r.Group("/api")
	api.GET("/voucher", s.getVoucher)
	api.GET("/purchases", s.listPurchases)
	api.POST("/purchases", s.recordPurchase)

	admin := api.Group("/admin", AdminKey(s.cfg.AdminKey))
	admin.PUT("/settings", s.replaceSettings)
	admin.POST("/settings/reset", s.resetBalance)
	admin.PATCH("/purchases/:id", s.updatePurchase)
	admin.DELETE("/purchases/:id", s.deletePurchase)
}

// Engine gin engine（測試用）
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run 啟動 HTTP 服務，ctx 結束時優雅關閉
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}
