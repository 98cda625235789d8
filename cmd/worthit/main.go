package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/Worthit/internal/api"
	"github.com/MikeSquared-Agency/Worthit/internal/broker"
	"github.com/MikeSquared-Agency/Worthit/internal/cache"
	"github.com/MikeSquared-Agency/Worthit/internal/config"
	"github.com/MikeSquared-Agency/Worthit/internal/hermes"
	"github.com/MikeSquared-Agency/Worthit/internal/scoring"
	"github.com/MikeSquared-Agency/Worthit/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(os.Stdout, cfg.Logging)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// History
	history, err := store.Open(ctx, cfg.History, logger)
	if err != nil {
		logger.Error("failed to open history store", "backend", cfg.History.Backend, "error", err)
		os.Exit(1)
	}
	defer history.Close()
	logger.Info("history store ready", "backend", cfg.History.Backend)

	// Hermes (optional)
	var hermesClient hermes.Client
	if cfg.Hermes.URL != "" {
		hc, err := hermes.NewNATSClient(ctx, cfg.Hermes.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
			logger.Info("connected to hermes")
		}
	}

	// Decision cache
	var decisionCache cache.Cache = cache.NewMemoryCache(cfg.CacheTTL(), cfg.Cache.MaxEntries)
	if cfg.Cache.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisAddr, cfg.CacheTTL(), logger)
		if err != nil {
			logger.Warn("failed to connect to redis, using in-memory cache", "error", err)
		} else {
			decisionCache = rc
			defer rc.Close()
			logger.Info("connected to redis")
		}
	}

	defaults := defaultInputs(cfg.Scoring)
	if err := defaults.Weights.Validate(); err != nil {
		logger.Warn("configured scoring weights", "error", err)
	}

	b := broker.New(history, decisionCache, hermesClient, defaults, logger)
	if err := b.SetupSubscriptions(); err != nil {
		logger.Warn("failed to subscribe to decision requests", "error", err)
	}

	// API server
	router := api.NewRouter(history, b, cfg.Server.AdminToken, cfg.Server.RequestsPerMinute, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsRouter := api.NewMetricsRouter()
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: metricsRouter,
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}

func newLogger(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// defaultInputs applies the configured tax rate and weights to the built-in
// form defaults.
func defaultInputs(cfg config.ScoringConfig) scoring.ItemInputs {
	return scoring.DefaultInputs().With(
		scoring.SetTaxRate(cfg.TaxRatePct),
		scoring.SetWeights(scoring.WeightSet{
			Financial: cfg.Weights.Financial,
			Utility:   cfg.Weights.Utility,
			Risk:      cfg.Weights.Risk,
		}),
	)
}
