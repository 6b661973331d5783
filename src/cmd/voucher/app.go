package main

import (
	"context"
	"errors"
	"fmt"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appvoucher "github.com/jackyeh168/voucher_ledger/src/internal/application/voucher"
	"github.com/jackyeh168/voucher_ledger/src/internal/config"
	"github.com/jackyeh168/voucher_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/voucher_ledger/src/internal/domain/voucher"
	"github.com/jackyeh168/voucher_ledger/src/internal/infrastructure/messaging"
	"github.com/jackyeh168/voucher_ledger/src/internal/infrastructure/metrics"
	"github.com/jackyeh168/voucher_ledger/src/internal/infrastructure/persistence"
	"github.com/jackyeh168/voucher_ledger/src/internal/interfaces/httpapi"
	"github.com/jackyeh168/voucher_ledger/src/internal/logging"
)

// application 組裝完成的依賴
type application struct {
	cfg      *config.Config
	log      *zap.Logger
	db       *gorm.DB
	metrics  *metrics.Metrics
	handlers httpapi.Handlers
	snapshot *appvoucher.LoadSnapshotUseCase
	feed     appvoucher.ChangeFeed

	closers []func() error
}

// loadConfig 讀取設定並建立 logger
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func openDatabase(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	return persistence.Open(persistence.DatabaseConfig{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
	}, log)
}

// newApplication 依設定組裝儲存層、事件發布與 Use Case
//
// Redis 與 Kafka 為選用；連線失敗只記錄警告。
func newApplication(ctx context.Context, cfg *config.Config, log *zap.Logger) (*application, error) {
	db, err := openDatabase(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := persistence.Migrate(db); err != nil {
		_ = persistence.Close(db)
		return nil, err
	}

	app := &application{
		cfg:     cfg,
		log:     log,
		db:      db,
		metrics: metrics.New(),
		closers: []func() error{func() error { return persistence.Close(db) }},
	}

	publishers := []shared.EventPublisher{
		messaging.NewLogPublisher(log),
		app.metrics,
	}

	if cfg.RedisEnabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, cfg.Store.Timeout)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn("redis unavailable, change feed disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = client.Close()
		} else {
			feed := messaging.NewRedisChangeFeed(client, cfg.Redis.Channel, log.Named("redis"))
			publishers = append(publishers, feed)
			app.feed = feed
			app.closers = append(app.closers, client.Close)
		}
	}

	if cfg.KafkaEnabled() {
		kafka := messaging.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		publishers = append(publishers, kafka)
		app.closers = append(app.closers, kafka.Close)
	}

	loc := cfg.Location()
	clock := shared.SystemClock{}
	storeClock := persistence.NewServerClock(clock, loc)
	settingsRepo := persistence.NewSettingsRepository(db, storeClock)
	purchaseRepo := persistence.NewPurchaseRepository(db, storeClock)
	txManager := persistence.NewGORMTransactionManager(db)
	events := appvoucher.NewEventDispatcher(messaging.NewMultiPublisher(publishers...), log.Named("events"))

	defaultBalance, err := voucher.NewYen(cfg.Voucher.DefaultBalance)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("voucher.default_balance: %w", err)
	}

	getSettings := appvoucher.NewGetSettingsUseCase(settingsRepo, clock)
	listPurchases := appvoucher.NewListPurchasesUseCase(purchaseRepo)

	app.handlers = httpapi.Handlers{
		GetSettings:     getSettings,
		ListPurchases:   listPurchases,
		RecordPurchase:  appvoucher.NewRecordPurchaseUseCase(settingsRepo, purchaseRepo, txManager, clock, events),
		ReplaceSettings: appvoucher.NewReplaceSettingsUseCase(settingsRepo, clock, loc, events),
		ResetBalance:    appvoucher.NewResetBalanceUseCase(settingsRepo, clock, defaultBalance, events),
		UpdatePurchase:  appvoucher.NewUpdatePurchaseUseCase(purchaseRepo, clock, events),
		DeletePurchase:  appvoucher.NewDeletePurchaseUseCase(purchaseRepo, clock, events),
	}
	app.snapshot = appvoucher.NewLoadSnapshotUseCase(getSettings, listPurchases, clock)

	initCtx, cancel := context.WithTimeout(ctx, cfg.Store.Timeout)
	if s, err := getSettings.Execute(initCtx); err == nil && s.Configured {
		app.metrics.SetBalance(s.Balance)
	}
	cancel()

	return app, nil
}

// Close 依相反順序釋放資源
func (a *application) Close() {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		a.log.Warn("shutdown", zap.Error(err))
	}
	_ = a.log.Sync()
}

