// Command notify-scan enqueues overdue review alerts and drains the pending
// notification queue. It is intended to be invoked by an external cron job,
// not as an in-process goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/quietloop/reviser/internal/adapter/delivery"
	"github.com/quietloop/reviser/internal/adapter/postgres"
	"github.com/quietloop/reviser/internal/adapter/postgres/notification"
	"github.com/quietloop/reviser/internal/adapter/postgres/schedule"
	"github.com/quietloop/reviser/internal/app"
	"github.com/quietloop/reviser/internal/config"
	"github.com/quietloop/reviser/internal/service/notify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)
	logger.Info("starting notify-scan", slog.String("version", app.BuildVersion()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	mgr := notify.NewManager(
		logger,
		notification.NewSettingsRepo(pool),
		notification.NewMessageRepo(pool),
		schedule.New(pool),
		delivery.NewLogSender(logger),
		clockwork.NewRealClock(),
	)

	enqueued, err := mgr.ScanOverdue(ctx, cfg.Notify.OverdueScanLimit)
	if err != nil {
		logger.Error("overdue scan failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	result, err := mgr.ProcessQueue(ctx, cfg.Notify.BatchSize)
	if err != nil {
		logger.Error("queue processing failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("notify scan completed",
		slog.Int("enqueued", enqueued),
		slog.Int("processed", result.Processed),
		slog.Int("sent", result.Sent),
		slog.Int("suppressed", result.Suppressed),
		slog.Int("failed", result.Failed),
		slog.Int("skipped", result.Skipped),
	)
}
