package config

import (
	"flag"
	"os"
	"testing"
	"time"
)

// loadWithArgs runs Load with a fresh flag set so tests can parse repeatedly
func loadWithArgs(t *testing.T, args ...string) *Config {
	t.Helper()

	oldCommandLine := flag.CommandLine
	oldArgs := os.Args
	t.Cleanup(func() {
		flag.CommandLine = oldCommandLine
		os.Args = oldArgs
	})

	flag.CommandLine = flag.NewFlagSet("test", flag.PanicOnError)
	os.Args = append([]string{"test"}, args...)

	return Load()
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadWithArgs(t)

	if cfg.Server.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.Server.HTTPAddr)
	}
	if cfg.Webex.BaseURL != "https://webexapis.com/v1" {
		t.Errorf("BaseURL = %q, want the public Webex API", cfg.Webex.BaseURL)
	}
	if cfg.Feed.Horizon != 12*time.Hour {
		t.Errorf("Horizon = %v, want 12h", cfg.Feed.Horizon)
	}
	if cfg.Feed.RoomItems != 5 {
		t.Errorf("RoomItems = %d, want 5", cfg.Feed.RoomItems)
	}
	if cfg.Feed.MentionItems != 5 {
		t.Errorf("MentionItems = %d, want 5", cfg.Feed.MentionItems)
	}
	if cfg.Feed.CompactNames {
		t.Error("CompactNames = true, want false by default")
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("Cache.Backend = %q, want memory", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("Cache.TTL = %v, want 5m", cfg.Cache.TTL)
	}
	if cfg.Server.RateLimitDur != 0 {
		t.Errorf("RateLimitDur = %v, want 0", cfg.Server.RateLimitDur)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoad_Flags(t *testing.T) {
	cfg := loadWithArgs(t,
		"-http", ":9090",
		"-horizon", "6h",
		"-room-items", "3",
		"-compact-names",
		"-cache-backend", "redis",
	)

	if cfg.Server.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want :9090", cfg.Server.HTTPAddr)
	}
	if cfg.Feed.Horizon != 6*time.Hour {
		t.Errorf("Horizon = %v, want 6h", cfg.Feed.Horizon)
	}
	if cfg.Feed.RoomItems != 3 {
		t.Errorf("RoomItems = %d, want 3", cfg.Feed.RoomItems)
	}
	if !cfg.Feed.CompactNames {
		t.Error("CompactNames = false, want true")
	}
	if cfg.Cache.Backend != "redis" {
		t.Errorf("Cache.Backend = %q, want redis", cfg.Cache.Backend)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("WEBEX_API_URL", "https://mock.webex.test/v1")
	t.Setenv("FEED_HORIZON", "1h")
	t.Setenv("ROOM_ITEMS", "8")
	t.Setenv("MENTION_ITEMS", "2")
	t.Setenv("COMPACT_NAMES", "true")
	t.Setenv("RATE_LIMIT", "250ms")
	t.Setenv("WEBEX_TOKEN", "fallback-token")
	t.Setenv("AUTH_JWT_SECRET", "host-secret")

	cfg := loadWithArgs(t)

	if cfg.Server.HTTPAddr != ":7070" {
		t.Errorf("HTTPAddr = %q, want :7070", cfg.Server.HTTPAddr)
	}
	if cfg.Webex.BaseURL != "https://mock.webex.test/v1" {
		t.Errorf("BaseURL = %q, want env override", cfg.Webex.BaseURL)
	}
	if cfg.Feed.Horizon != time.Hour {
		t.Errorf("Horizon = %v, want 1h", cfg.Feed.Horizon)
	}
	if cfg.Feed.RoomItems != 8 {
		t.Errorf("RoomItems = %d, want 8", cfg.Feed.RoomItems)
	}
	if cfg.Feed.MentionItems != 2 {
		t.Errorf("MentionItems = %d, want 2", cfg.Feed.MentionItems)
	}
	if !cfg.Feed.CompactNames {
		t.Error("CompactNames = false, want true via env")
	}
	if cfg.Server.RateLimitDur != 250*time.Millisecond {
		t.Errorf("RateLimitDur = %v, want 250ms", cfg.Server.RateLimitDur)
	}
	if cfg.Webex.Token != "fallback-token" {
		t.Errorf("Webex.Token = %q, want fallback-token", cfg.Webex.Token)
	}
	if cfg.Auth.JWTSecret != "host-secret" {
		t.Errorf("Auth.JWTSecret = %q, want host-secret", cfg.Auth.JWTSecret)
	}
}

func TestLoad_InvalidEnvIgnored(t *testing.T) {
	t.Setenv("ROOM_ITEMS", "not-a-number")
	t.Setenv("FEED_HORIZON", "sometime")

	cfg := loadWithArgs(t)

	if cfg.Feed.RoomItems != 5 {
		t.Errorf("RoomItems = %d, want default 5 when env is garbage", cfg.Feed.RoomItems)
	}
	if cfg.Feed.Horizon != 12*time.Hour {
		t.Errorf("Horizon = %v, want default 12h when env is garbage", cfg.Feed.Horizon)
	}
}
