// cmd/scanner runs one end-of-day decision pass: fetch daily history for the
// universe, classify entries and exits, rank candidates, allocate capital and
// persist the position ledger.
//
// Usage:
//
//	go run ./cmd/scanner --dry-run
//	go run ./cmd/scanner --force --top=10
//
// Config comes from environment variables (see config.Load), optionally via a
// .env file in the working directory.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"trend-scannerv1/config"
	"trend-scannerv1/internal/indicator"
	"trend-scannerv1/internal/logger"
	"trend-scannerv1/internal/marketdata"
	"trend-scannerv1/internal/marketdata/yahoo"
	"trend-scannerv1/internal/markethours"
	"trend-scannerv1/internal/metrics"
	"trend-scannerv1/internal/model"
	"trend-scannerv1/internal/notification"
	"trend-scannerv1/internal/report"
	"trend-scannerv1/internal/scan"
	"trend-scannerv1/internal/signal"
	redisstore "trend-scannerv1/internal/store/redis"
	sqlitestore "trend-scannerv1/internal/store/sqlite"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Compute decisions without persisting or notifying")
	force := flag.Bool("force", false, "Run even on a non-trading day")
	topN := flag.Int("top", 10, "Ranked candidates to show in the report (0=all)")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	slg := logger.Init("scanner", logger.ParseLevel(*logLevel))

	now := time.Now()
	if !markethours.IsTradingDay(now) && !*force {
		slg.Info("not a trading day, skipping run",
			slog.String("status", markethours.StatusString(now)))
		return
	}

	var m *metrics.Metrics
	if cfg.MetricsAddr != "" {
		m = metrics.New()
		srv := metrics.NewServer(cfg.MetricsAddr)
		srv.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Stop(ctx)
		}()
	}

	store, err := sqlitestore.New(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("[scanner] sqlite open failed: %v", err)
	}
	defer store.Close()

	var provider model.BarProvider = yahoo.New()
	if cfg.RedisAddr != "" {
		cache, err := redisstore.NewBarCache(cfg.RedisAddr, cfg.RedisPassword, cfg.BarCacheTTL)
		if err != nil {
			slg.Warn("bar cache unavailable, fetching uncached", slog.Any("err", err))
		} else {
			defer cache.Close()
			provider = marketdata.WithCache(provider, cache)
		}
	}

	var notifier notification.Notifier = notification.NewLogNotifier()
	if cfg.WebhookURL != "" {
		notifier = notification.NewWebhookNotifier(cfg.WebhookURL)
	}

	scanner := scan.New(scan.Config{
		Universe:        cfg.ParseUniverse(),
		LookbackDays:    cfg.LookbackDays,
		Workers:         cfg.ScanWorkers,
		InitialCapital:  cfg.InitialCapital,
		MaxPositions:    cfg.MaxPositions,
		PositionSizePct: cfg.PositionSizePct,
		Indicator: indicator.Params{
			LongWindow:   cfg.MALength,
			SmoothWindow: cfg.SmoothWindow,
			EntryBuffer:  cfg.EntryBuffer,
			ExitBuffer:   cfg.ExitBuffer,
		},
		Rules: signal.Rules{
			HardStopPct: cfg.HardStopPct,
			SlopeFilter: cfg.SlopeFilter,
		},
		DryRun: *dryRun,
	}, provider, store, notifier, m, slg)

	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := scanner.Run(ctx)
	if err != nil {
		log.Fatalf("[scanner] run failed: %v", err)
	}

	report.Print(res, *topN)
}
