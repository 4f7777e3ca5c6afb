package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/adenin-connectors/webex-teams/internal/auth"
	"github.com/adenin-connectors/webex-teams/internal/feed"
	"github.com/adenin-connectors/webex-teams/internal/logging"
	"github.com/adenin-connectors/webex-teams/internal/webex"
)

// Server exposes the connector's activities to the host
type Server struct {
	agg            *feed.Aggregator
	client         *webex.Client
	authMiddleware *auth.Middleware
	logger         *logging.Logger
	server         *http.Server
}

// New creates the activity HTTP server
func New(agg *feed.Aggregator, client *webex.Client, authMiddleware *auth.Middleware, logger *logging.Logger) *Server {
	return &Server{
		agg:            agg,
		client:         client,
		authMiddleware: authMiddleware,
		logger:         logger,
	}
}

// Start registers routes and serves until Shutdown
func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()

	// Activity routes - require the caller's Webex credential
	mux.HandleFunc("/api/activities/recentmessages",
		s.corsMiddleware(s.requestIDMiddleware(s.authMiddleware.RequireToken(s.handleRecentMessages))))
	mux.HandleFunc("/api/activities/ping",
		s.corsMiddleware(s.requestIDMiddleware(s.authMiddleware.RequireToken(s.handlePing))))

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	s.logger.Info("Activity server starting", logging.WithField("addr", addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// requestIDMiddleware tags every request with an id for log correlation
func (s *Server) requestIDMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)

		s.logger.Debug("Handling activity request", logging.WithFields(map[string]interface{}{
			"requestId": requestID,
			"path":      r.URL.Path,
		}))

		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Failed to encode response", logging.WithField("error", err.Error()))
	}
}
