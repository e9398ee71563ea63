package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/orbit/isswatch/internal/config"
	"github.com/orbit/isswatch/internal/daynight"
	"github.com/orbit/isswatch/internal/health"
	"github.com/orbit/isswatch/internal/metrics"
	"github.com/orbit/isswatch/internal/monitor"
	"github.com/orbit/isswatch/internal/notify"
	"github.com/orbit/isswatch/internal/position"
	"github.com/orbit/isswatch/internal/render"
	"github.com/orbit/isswatch/internal/tle"
)

const issNoradID = 25544

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	// Optional .env in the working directory, before env parsing.
	if err := godotenv.Load(); err == nil {
		logger.Info("loaded .env file")
	}

	cfg := config.FromEnv(logger)
	if err := cfg.Validate(); err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			for _, v := range verr.Violations {
				logger.Error("configuration error", "violation", v)
			}
		} else {
			logger.Error("invalid configuration", "error", err)
		}
		os.Exit(1)
	}

	var source monitor.PositionSource
	switch cfg.PositionSource {
	case config.SourceTLE:
		store := tle.NewStore(tle.NewFetcher(cfg.TLEURL), issNoradID, cfg.TLEMaxAge, logger)
		source = position.NewTLESource(store, logger)
		logger.Info("using TLE/SGP4 position source", "tle_url", cfg.TLEURL, "norad_id", issNoradID)
	default:
		source = position.NewAPISource(cfg.PositionURL, logger)
		logger.Info("using position API source", "url", cfg.PositionURL)
	}

	checker := daynight.NewChecker(cfg.SunURL, cfg.Observer, cfg.UTCOffset(), logger)

	mailer := notify.NewMailer(notify.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Address:  cfg.Email,
		Password: cfg.EmailPassword,
		Observer: cfg.Observer,
	}, logger)

	var renderer monitor.Renderer
	if cfg.Render {
		console := render.NewConsole(os.Stdout, cfg.Observer, cfg.Email)
		console.Banner()
		renderer = console
	}

	mon := monitor.New(monitor.Config{
		Observer:             cfg.Observer,
		ThresholdKm:          cfg.ThresholdKm,
		Interval:             cfg.Interval,
		MaxConsecutiveErrors: cfg.MaxConsecutiveErrors,
		NightPolicy:          cfg.NightPolicy,
	}, source, checker, mailer, renderer, logger)

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	healthState := &health.State{}
	var opsSrv *http.Server
	if cfg.OpsAddr != "" {
		mux := http.NewServeMux()
		mux.HandleFunc("/healthz", healthState.Healthz)
		mux.HandleFunc("/readyz", healthState.Readyz)
		mux.Handle("/metrics", metrics.Handler())

		opsSrv = &http.Server{Addr: cfg.OpsAddr, Handler: mux}
		go func() {
			logger.Info("starting ops listener", "addr", cfg.OpsAddr)
			if err := opsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("ops listener error", "error", err)
			}
		}()
	}

	healthState.SetReady()
	runErr := mon.Run(ctx)

	if opsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := opsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("ops listener shutdown error", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("monitor terminated", "error", runErr)
		os.Exit(1)
	}
	logger.Info("stopped")
}
