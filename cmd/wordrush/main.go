package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/haneul-games/wordrush/internal/adapters/http/api"
	"github.com/haneul-games/wordrush/internal/adapters/kv"
	"github.com/haneul-games/wordrush/internal/adapters/openai"
	service "github.com/haneul-games/wordrush/internal/app"
	"github.com/haneul-games/wordrush/internal/config"
	"github.com/haneul-games/wordrush/internal/domain/scope"
	"github.com/haneul-games/wordrush/pkg/logger"
	"github.com/haneul-games/wordrush/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 60 * time.Second // transcription uploads can be slow
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics;
	// we collect our own custom system metrics instead.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// The store is optional: without it reads degrade to empty results and
	// writes report a configuration error, but the process still serves.
	var store kv.Store
	if cfg.StoreURL != "" {
		redisStore, err := kv.NewRedisStore(cfg.StoreURL)
		if err != nil {
			os.Stderr.WriteString("failed to connect ranking store: " + err.Error() + "\n")
			return
		}
		defer func() { _ = redisStore.Close() }()
		store = redisStore
	} else {
		log.Warn(ctx, "no store_url configured; leaderboard endpoints will degrade")
	}

	inference := openai.New(cfg.OpenAIAPIKey, openai.WithBaseURL(cfg.OpenAIBaseURL))
	if !inference.Configured() {
		log.Warn(ctx, "no openai_api_key configured; guess/transcribe will answer with placeholders")
	}

	svc := service.New(
		service.WithLogger(log),
		service.WithStore(store),
		service.WithInference(inference),
		service.WithNamespace(cfg.Namespace),
		service.WithScope(scope.ParseMode(cfg.ScopeMode), cfg.ScopeTag),
		service.WithLeaderboardCap(cfg.LeaderboardCap),
		service.WithFetchMultiplier(cfg.FetchMultiplier),
	)

	go startSystemMetricsUpdater(ctx)

	mux := http.NewServeMux()
	apiServer := api.NewServer(svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("scope_mode", cfg.ScopeMode),
			logger.Int("leaderboard_cap", cfg.LeaderboardCap),
			logger.Bool("store_configured", store != nil),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
