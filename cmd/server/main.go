package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/kjannette/fmp-backend/internal/api"
	"github.com/kjannette/fmp-backend/internal/config"
	"github.com/kjannette/fmp-backend/internal/external"
	"github.com/kjannette/fmp-backend/internal/logging"
	"github.com/kjannette/fmp-backend/internal/notifications"
	"github.com/kjannette/fmp-backend/internal/report"
	"github.com/kjannette/fmp-backend/internal/research"
	"github.com/kjannette/fmp-backend/internal/scheduler"
	"github.com/kjannette/fmp-backend/internal/symbols"
)

const banner = `
╔══════════════════════════════════════╗
║          FMP Toolkit v0.3            ║
║                                      ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg.Print()

	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	fmp := external.NewFMPClient(cfg.FMPAPIKey, external.FMPOptions{
		BaseURL:     cfg.FMPBaseURL,
		Timeout:     time.Duration(cfg.FMPTimeoutSeconds) * time.Second,
		MaxAttempts: cfg.FMPMaxAttempts,
		Logger:      logging.Component(log, "fmp"),
	})
	rs := research.NewService(fmp, logging.Component(log, "research"))
	reports := report.NewBuilder(fmp, rs, report.Options{
		DefaultPeriod: cfg.IntradayDefaultPeriod,
		SearchLimit:   cfg.SearchLimit,
	})

	// Watchlist monitor (optional)
	var watch *scheduler.WatchScheduler
	if cfg.WatchSchedule != "" {
		watch, err = newWatchScheduler(cfg, rs, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[WATCH] %v\n", err)
			os.Exit(1)
		}
	} else {
		log.Info().Msg("watch scheduler skipped: WATCH_SCHEDULE not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var watcher api.Watcher
	if watch != nil {
		watcher = watch
	}
	srv := api.NewServer(fmp, rs, reports, watcher, logging.Component(log, "api"), api.Options{
		Port:            cfg.Port,
		CORSAllowOrigin: cfg.CORSAllowOrigin,
		ServeUI:         cfg.ServeUI,
		AppName:         cfg.AppName,
	})
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server error")
			os.Exit(1)
		}
	}()

	if watch != nil {
		if err := watch.Start(); err != nil {
			log.Error().Err(err).Msg("watch scheduler start failed")
			os.Exit(1)
		}
	}

	log.Info().Msg("all services started")

	<-ctx.Done()
	log.Info().Msg("shutting down gracefully")

	if watch != nil {
		watch.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown error")
	}
	log.Info().Msg("shutdown complete")
}

func newWatchScheduler(cfg *config.Config, rs *research.Service, log zerolog.Logger) (*scheduler.WatchScheduler, error) {
	lists, err := symbols.LoadWatchlists(cfg.WatchlistFile)
	if err != nil {
		return nil, err
	}
	syms, ok := lists.Get(cfg.WatchList)
	if !ok {
		return nil, fmt.Errorf("watchlist %q not found in %s (have %v)", cfg.WatchList, cfg.WatchlistFile, lists.Names())
	}

	notify := notifications.NewSender(cfg.WebhookURL, cfg.AppName, logging.Component(log, "notify"))
	if !notify.Enabled() {
		log.Warn().Str("list", cfg.WatchList).Msg("WEBHOOK_URL not set: watchlist summaries go to the log only")
	}
	return scheduler.NewWatchScheduler(rs, notify, scheduler.WatchConfig{
		Schedule:         cfg.WatchSchedule,
		List:             cfg.WatchList,
		Symbols:          syms,
		BusinessDaysOnly: true,
	}, logging.Component(log, "scheduler"))
}
