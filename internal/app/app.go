package app

import (
	"context"

	"github.com/adenin-connectors/webex-teams/internal/auth"
	"github.com/adenin-connectors/webex-teams/internal/cache"
	"github.com/adenin-connectors/webex-teams/internal/config"
	"github.com/adenin-connectors/webex-teams/internal/feed"
	"github.com/adenin-connectors/webex-teams/internal/httpapi"
	"github.com/adenin-connectors/webex-teams/internal/logging"
	"github.com/adenin-connectors/webex-teams/internal/markup"
	"github.com/adenin-connectors/webex-teams/internal/ratelimit"
	"github.com/adenin-connectors/webex-teams/internal/webex"
)

// App holds all application dependencies
type App struct {
	Config     *config.Config
	Logger     *logging.Logger
	Cache      cache.Cache
	Client     *webex.Client
	Aggregator *feed.Aggregator
	HTTPServer *httpapi.Server
}

// New creates and initializes a new App instance
func New(cfg *config.Config) *App {
	a := &App{Config: cfg}

	a.Logger = a.initLogger()
	a.Cache = a.initCache()

	var limiter ratelimit.RateLimiter
	if cfg.Server.RateLimitDur > 0 {
		limiter = ratelimit.New(cfg.Server.RateLimitDur)
	}

	a.Client = webex.New(webex.Config{
		BaseURL: cfg.Webex.BaseURL,
		Token:   cfg.Webex.Token,
		Timeout: cfg.Webex.Timeout,
	}, limiter)

	a.Aggregator = feed.New(markup.NewSparkMentions(), a.Cache, a.Logger, feed.Options{
		Horizon:      cfg.Feed.Horizon,
		RoomItems:    cfg.Feed.RoomItems,
		MentionItems: cfg.Feed.MentionItems,
		CompactNames: cfg.Feed.CompactNames,
	})

	authMiddleware := auth.NewMiddleware(cfg.Auth.JWTSecret)
	a.HTTPServer = httpapi.New(a.Aggregator, a.Client, authMiddleware, a.Logger)

	return a
}

// Run serves HTTP until the context is cancelled
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.HTTPServer.Start(a.Config.Server.HTTPAddr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error("HTTP server shutdown error", logging.WithField("error", err.Error()))
			return err
		}
	}
	return nil
}

func (a *App) initLogger() *logging.Logger {
	level := logging.LevelInfo
	switch a.Config.Logging.Level {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	}
	return logging.New(level)
}

func (a *App) initCache() cache.Cache {
	if a.Config.Cache.Backend == "redis" {
		redisCache, err := cache.NewRedis(cache.RedisConfig{
			Addr:     a.Config.Cache.RedisAddr,
			Password: a.Config.Cache.RedisPassword,
			Prefix:   "webex:",
		}, a.Config.Cache.TTL)
		if err == nil {
			a.Logger.Info("Using Redis cache backend", logging.WithField("addr", a.Config.Cache.RedisAddr))
			return redisCache
		}
		a.Logger.Error("Failed to connect to Redis, falling back to memory cache", logging.WithField("error", err.Error()))
	}

	return cache.NewMemory(a.Config.Cache.TTL)
}
