package config

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Webex   WebexConfig
	Feed    FeedConfig
	Cache   CacheConfig
	Auth    AuthConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr     string
	RateLimitDur time.Duration
}

// WebexConfig holds Webex API connection settings. Token is the fallback
// credential; the host normally forwards a per-user token with each request.
type WebexConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// FeedConfig holds aggregation settings
type FeedConfig struct {
	Horizon      time.Duration
	RoomItems    int
	MentionItems int
	CompactNames bool
}

// CacheConfig holds the person-lookup cache configuration
type CacheConfig struct {
	Backend       string // "memory" or "redis"
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
}

// AuthConfig holds host authentication configuration
type AuthConfig struct {
	JWTSecret string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// Load parses flags and environment variables to build configuration.
// A .env file in the working directory is read first when present.
func Load() *Config {
	godotenv.Load()

	httpAddr := flag.String("http", ":8080", "HTTP server address")
	webexURL := flag.String("webex-url", "https://webexapis.com/v1", "Webex API base URL")
	webexTimeout := flag.Duration("webex-timeout", 30*time.Second, "Webex API request timeout")
	horizon := flag.Duration("horizon", 12*time.Hour, "Recency horizon for rooms and messages")
	roomItems := flag.Int("room-items", 5, "Displayed messages per room")
	mentionItems := flag.Int("mention-items", 5, "Displayed mentions per room")
	compactNames := flag.Bool("compact-names", false, "Use first names on feed items")
	cacheBackend := flag.String("cache-backend", "memory", "Cache backend: memory or redis")
	cacheTTL := flag.Duration("cache-ttl", 5*time.Minute, "Cache TTL for person records")
	redisAddr := flag.String("redis-addr", "localhost:6379", "Redis server address")
	rateLimitDur := flag.Duration("rate-limit", 0, "Minimum delay between requests to the Webex host")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")

	flag.Parse()

	applyEnvOverrides(httpAddr, webexURL, webexTimeout, horizon, roomItems, mentionItems, compactNames, cacheBackend, cacheTTL, redisAddr, rateLimitDur, logLevel)

	return &Config{
		Server: ServerConfig{
			HTTPAddr:     *httpAddr,
			RateLimitDur: *rateLimitDur,
		},
		Webex: WebexConfig{
			BaseURL: *webexURL,
			Token:   os.Getenv("WEBEX_TOKEN"),
			Timeout: *webexTimeout,
		},
		Feed: FeedConfig{
			Horizon:      *horizon,
			RoomItems:    *roomItems,
			MentionItems: *mentionItems,
			CompactNames: *compactNames,
		},
		Cache: CacheConfig{
			Backend:       *cacheBackend,
			TTL:           *cacheTTL,
			RedisAddr:     *redisAddr,
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
		},
		Logging: LoggingConfig{
			Level: *logLevel,
		},
	}
}

func applyEnvOverrides(
	httpAddr *string,
	webexURL *string,
	webexTimeout *time.Duration,
	horizon *time.Duration,
	roomItems *int,
	mentionItems *int,
	compactNames *bool,
	cacheBackend *string,
	cacheTTL *time.Duration,
	redisAddr *string,
	rateLimitDur *time.Duration,
	logLevel *string,
) {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		*httpAddr = v
	}
	if v := os.Getenv("WEBEX_API_URL"); v != "" {
		*webexURL = v
	}
	if v := os.Getenv("WEBEX_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*webexTimeout = d
		}
	}
	if v := os.Getenv("FEED_HORIZON"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*horizon = d
		}
	}
	if v := os.Getenv("ROOM_ITEMS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*roomItems = n
		}
	}
	if v := os.Getenv("MENTION_ITEMS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*mentionItems = n
		}
	}
	if v := os.Getenv("COMPACT_NAMES"); v == "true" || v == "1" {
		*compactNames = true
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		*cacheBackend = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*cacheTTL = d
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		*redisAddr = v
	}
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*rateLimitDur = d
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		*logLevel = v
	}
}
