package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if WORDRUSH_CONFIG is set
//  3. env (prefix WORDRUSH_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("WORDRUSH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: WORDRUSH_ADDR, WORDRUSH_STORE_URL, ...
	// Map env keys like WORDRUSH_SCOPE_MODE -> scope_mode (flat keys).
	envProvider := env.Provider("WORDRUSH_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "wordrush_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.LeaderboardCap < 1 || cfg.LeaderboardCap > MaxLeaderboardCap {
		return fmt.Errorf("%w: leaderboard_cap must be in [1,%d]", ErrInvalidConfig, MaxLeaderboardCap)
	}
	if cfg.FetchMultiplier < 1 {
		cfg.FetchMultiplier = defaultFetchMultiplier
	}
	switch strings.ToLower(cfg.ScopeMode) {
	case "", "global", "day", "tag":
	default:
		return fmt.Errorf("%w: scope_mode must be global, day, or tag", ErrInvalidConfig)
	}
	return nil
}
