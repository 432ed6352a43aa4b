package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/haneul-games/wordrush/internal/seed"
	"github.com/haneul-games/wordrush/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumScores   = 200
	defaultTimeout     = 10 * time.Second
	defaultSpeedRunPct = 40
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numScores   = flag.Int("scores", defaultNumScores, "Number of scores to generate and submit")
		workers     = flag.Int("workers", runtime.NumCPU(), "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		speedRunPct = flag.Int("speedrun-pct", defaultSpeedRunPct, "Percentage of SPEED_RUN submissions")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, err := seed.Run(ctx, &seed.Config{
		BaseURL:     *baseURL,
		NumScores:   *numScores,
		Workers:     *workers,
		Timeout:     *timeout,
		SpeedRunPct: *speedRunPct,
	})
	if err != nil {
		logger.Get().Error(ctx, "seeding failed", logger.Error(err))
		os.Exit(1)
	}
}
