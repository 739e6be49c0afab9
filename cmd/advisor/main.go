package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/NikhilGolait/KisanMitra/internal/adapter/httpapi"
	kafkaadapter "github.com/NikhilGolait/KisanMitra/internal/adapter/kafka"
	"github.com/NikhilGolait/KisanMitra/internal/adapter/nominatim"
	"github.com/NikhilGolait/KisanMitra/internal/adapter/openmeteo"
	"github.com/NikhilGolait/KisanMitra/internal/advisor"
	"github.com/NikhilGolait/KisanMitra/internal/config"
	"github.com/NikhilGolait/KisanMitra/internal/notify"
	"github.com/NikhilGolait/KisanMitra/internal/observability"
	"github.com/NikhilGolait/KisanMitra/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	geocoder := nominatim.NewCachedGeocoder(
		nominatim.NewClient(cfg.NominatimBaseURL, cfg.NominatimTimeout, metrics, logger),
		cfg.NominatimCacheSize,
		metrics,
	)
	forecast := openmeteo.NewClient(cfg.OpenMeteoBaseURL, cfg.OpenMeteoTimeout, cfg.ForecastDays, metrics, logger)

	engine := advisor.New(geocoder, forecast, logger, metrics)

	permission := notify.PermissionUndetermined
	if !cfg.NotifyEnabled {
		permission = notify.PermissionDenied
	}
	scheduler := notify.NewScheduler(
		notify.NewLogSender(logger),
		notify.NewStaticGate(permission),
		cfg.NotifyDelay,
		clockwork.NewRealClock(),
		logger,
		metrics,
	)

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)

	p := pipeline.New(reader, engine, writer, scheduler, logger, metrics)

	srv := httpapi.NewServer(cfg.HTTPAddr, engine, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start sensor pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
