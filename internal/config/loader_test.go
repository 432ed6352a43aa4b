package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/haneul-games/wordrush/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

// clearEnv scrubs service variables so each branch starts from defaults.
// t.Setenv alone is not enough: branches of the same test share the process
// environment until the test ends.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "WORDRUSH_") {
			name, _, _ := strings.Cut(kv, "=")
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
}

func TestLoad(t *testing.T) {
	Convey("Given a clean environment", t, func() {
		clearEnv(t)
		Convey("Defaults apply when nothing is configured", func() {
			cfg, err := config.Load()
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.Namespace, ShouldEqual, "scores")
			So(cfg.ScopeMode, ShouldEqual, "global")
			So(cfg.LeaderboardCap, ShouldEqual, config.DefaultLeaderboardCap)
			So(cfg.FetchMultiplier, ShouldEqual, 4)
			So(cfg.StoreURL, ShouldBeEmpty)
		})

		Convey("Environment variables override defaults", func() {
			t.Setenv("WORDRUSH_ADDR", ":7070")
			t.Setenv("WORDRUSH_STORE_URL", "redis://localhost:6379/0")
			t.Setenv("WORDRUSH_SCOPE_MODE", "day")
			t.Setenv("WORDRUSH_LEADERBOARD_CAP", "25")

			cfg, err := config.Load()
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.StoreURL, ShouldEqual, "redis://localhost:6379/0")
			So(cfg.ScopeMode, ShouldEqual, "day")
			So(cfg.LeaderboardCap, ShouldEqual, 25)
		})

		Convey("A YAML file layers under the environment", func() {
			path := filepath.Join(t.TempDir(), "config.yaml")
			So(os.WriteFile(path, []byte("addr: \":6060\"\nnamespace: staging\n"), 0o600), ShouldBeNil)
			t.Setenv("WORDRUSH_CONFIG", path)
			t.Setenv("WORDRUSH_ADDR", ":7070")

			cfg, err := config.Load()
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.Namespace, ShouldEqual, "staging")
		})

		Convey("A missing config file fails loudly", func() {
			t.Setenv("WORDRUSH_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
			_, err := config.Load()
			So(err, ShouldWrap, config.ErrLoadConfig)
		})

		Convey("An out-of-range leaderboard cap is rejected", func() {
			t.Setenv("WORDRUSH_LEADERBOARD_CAP", "0")
			_, err := config.Load()
			So(err, ShouldWrap, config.ErrInvalidConfig)

			t.Setenv("WORDRUSH_LEADERBOARD_CAP", "500")
			_, err = config.Load()
			So(err, ShouldWrap, config.ErrInvalidConfig)
		})

		Convey("An unknown scope mode is rejected", func() {
			t.Setenv("WORDRUSH_SCOPE_MODE", "weekly")
			_, err := config.Load()
			So(err, ShouldWrap, config.ErrInvalidConfig)
		})

		Convey("A non-positive fetch multiplier falls back to the default", func() {
			t.Setenv("WORDRUSH_FETCH_MULTIPLIER", "0")
			cfg, err := config.Load()
			So(err, ShouldBeNil)
			So(cfg.FetchMultiplier, ShouldEqual, 4)
		})
	})
}
