package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adenin-connectors/webex-teams/internal/app"
	"github.com/adenin-connectors/webex-teams/internal/config"
	"github.com/adenin-connectors/webex-teams/internal/logging"
)

func main() {
	cfg := config.Load()

	a := app.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil && err != http.ErrServerClosed {
		a.Logger.Error("Server error", logging.WithField("error", err.Error()))
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.Shutdown(shutdownCtx); err != nil {
		os.Exit(1)
	}
}
