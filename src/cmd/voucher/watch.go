package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	appvoucher "github.com/jackyeh168/voucher_ledger/src/internal/application/voucher"
	"github.com/jackyeh168/voucher_ledger/src/internal/domain/voucher"
)

var watchLimit int

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the balance and latest purchases whenever they change",
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

		poller := appvoucher.NewPoller(app.snapshot, app.feed, appvoucher.PollerConfig{
			Interval: cfg.Poll.Interval,
			Timeout:  cfg.Store.Timeout,
		}, log.Named("poller"))

		out := cmd.OutOrStdout()
		loc := cfg.Location()
		var last string
		return poller.Run(ctx, func(snap *appvoucher.Snapshot, err error) {
			if err != nil {
				retry := "fix input"
				if voucher.IsRetryable(err) {
					retry = "will retry"
				}
				fmt.Fprintf(out, "refresh failed (%s): %v\n", retry, err)
				return
			}
			rendered := renderSnapshot(snap, loc, watchLimit)
			if rendered == last {
				return
			}
			last = rendered
			_, _ = io.WriteString(out, rendered)
		})
	},
}

func init() {
	watchCmd.Flags().IntVarP(&watchLimit, "limit", "n", 5, "number of recent purchases to show")
}

// renderSnapshot 以純文字呈現快照（不含刷新時間，內容未變時不重複輸出）
func renderSnapshot(snap *appvoucher.Snapshot, loc *time.Location, limit int) string {
	s := snap.Settings
	if !s.Configured {
		return "voucher not configured\n"
	}

	status := "no expiry"
	if s.ExpireAt != nil {
		expire := s.ExpireAt.In(loc).Format("2006-01-02 15:04")
		switch {
		case s.Expired:
			status = "expired " + expire
		case s.DaysLeft != nil:
			status = fmt.Sprintf("expires %s (%d days left)", expire, *s.DaysLeft)
		}
	}

	text := fmt.Sprintf("balance: %s yen, %s, %d purchases\n", groupThousands(s.Balance), status, len(snap.Purchases))
	for i, p := range snap.Purchases {
		if i >= limit {
			break
		}
		line := fmt.Sprintf("  %s  %-20s %8s", p.Date, p.Item, groupThousands(p.Price))
		if p.Note != "" {
			line += "  " + p.Note
		}
		text += line + "\n"
	}
	return text
}

func groupThousands(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := fmt.Sprintf("%d", v)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return sign + s
}
