// Package seed generates synthetic score submissions and posts them to a
// running instance, for load testing and demo boards.
package seed

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/haneul-games/wordrush/internal/domain/dept"
	"github.com/haneul-games/wordrush/internal/domain/types"
	"github.com/haneul-games/wordrush/pkg/logger"
)

// Score generation ranges per mode.
const (
	timeAttackMaxScore = 500
	speedRunMinSeconds = 5.0
	speedRunMaxSeconds = 120.0
	randomFloatDivisor = 1_000_000
)

var firstNames = []string{
	"민준", "서연", "도윤", "지우", "하준", "서현", "예준", "하은",
	"지호", "수아", "준서", "다은", "건우", "소율", "현우", "유나",
}

// Config controls a seeding run.
type Config struct {
	BaseURL     string
	NumScores   int
	Workers     int
	Timeout     time.Duration
	SpeedRunPct int // percentage of submissions in SPEED_RUN mode
}

// Stats accumulates run counters.
type Stats struct {
	Submitted atomic.Int64
	Improved  atomic.Int64
	Failed    atomic.Int64
}

type submission struct {
	Mode       string  `json:"mode"`
	Score      float64 `json:"score"`
	PlayerName string  `json:"playerName"`
	DeptCode   string  `json:"deptCode,omitempty"`
}

type submitReply struct {
	Success  bool `json:"success"`
	Improved bool `json:"improved"`
}

func randomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func randomPick[T any](items []T) T {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(items))))
	return items[n.Int64()]
}

func randomSubmission(cfg *Config) submission {
	name := fmt.Sprintf("%s%d", randomPick(firstNames), int(randomFloat()*10000))
	s := submission{PlayerName: name}

	if int(randomFloat()*100) < cfg.SpeedRunPct {
		s.Mode = string(types.ModeSpeedRun)
		s.Score = speedRunMinSeconds + randomFloat()*(speedRunMaxSeconds-speedRunMinSeconds)
	} else {
		s.Mode = string(types.ModeTimeAttack)
		s.Score = randomFloat() * timeAttackMaxScore
	}

	// Roughly half the players carry a department affiliation.
	if randomFloat() < 0.5 {
		s.DeptCode = randomPick(dept.Codes())
	}
	return s
}

// Run posts cfg.NumScores random submissions using cfg.Workers goroutines
// and returns aggregate counters.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if cfg.NumScores <= 0 {
		return nil, fmt.Errorf("num scores must be positive")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	log := logger.Get()
	log.Info(ctx, "seeding scores",
		logger.String("url", cfg.BaseURL),
		logger.Int("count", cfg.NumScores),
		logger.Int("workers", cfg.Workers),
	)

	client := &http.Client{Timeout: cfg.Timeout}
	stats := &Stats{}
	jobs := make(chan submission)

	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sub := range jobs {
				if err := post(ctx, client, cfg.BaseURL, sub, stats); err != nil {
					stats.Failed.Add(1)
					log.Debug(ctx, "submission failed", logger.Error(err))
				}
			}
		}()
	}

	for i := 0; i < cfg.NumScores; i++ {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return stats, ctx.Err()
		case jobs <- randomSubmission(cfg):
		}
	}
	close(jobs)
	wg.Wait()

	log.Info(ctx, "seeding complete",
		logger.Int("submitted", int(stats.Submitted.Load())),
		logger.Int("improved", int(stats.Improved.Load())),
		logger.Int("failed", int(stats.Failed.Load())),
	)
	return stats, nil
}

func post(ctx context.Context, client *http.Client, baseURL string, sub submission, stats *Stats) error {
	body, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/scores", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post score: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var reply submitReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return fmt.Errorf("decode reply: %w", err)
	}
	stats.Submitted.Add(1)
	if reply.Improved {
		stats.Improved.Add(1)
	}
	return nil
}
