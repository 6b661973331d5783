package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jackyeh168/voucher_ledger/src/internal/interfaces/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, err := newApplication(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer app.Close()

		if cfg.Voucher.AdminKey == "" {
			log.Warn("voucher.admin_key is empty, admin routes are disabled")
		}

		server := httpapi.NewServer(app.handlers, httpapi.Config{
			AdminKey:     cfg.Voucher.AdminKey,
			StoreTimeout: cfg.Store.Timeout,
		}, app.metrics, log)

		log.Info("starting voucher server",
			zap.String("version", Version),
			zap.String("database", cfg.Database.Driver),
			zap.String("timezone", cfg.Voucher.Timezone),
		)
		return server.Run(ctx, cfg.HTTP.Addr)
	},
}
