package httpapi

import (
	"errors"
	"net/http"

	"github.com/adenin-connectors/webex-teams/internal/auth"
	"github.com/adenin-connectors/webex-teams/internal/logging"
	"github.com/adenin-connectors/webex-teams/internal/models"
)

// Envelope is the activity response contract with the host: Data carries
// the payload and ErrorCode is zero on success or the upstream status on
// failure.
type Envelope struct {
	Data      interface{} `json:"data,omitempty"`
	ErrorCode int         `json:"errorCode"`
}

// handleRecentMessages runs one aggregation as the calling user and writes
// the feed into the activity envelope
func (s *Server) handleRecentMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	client := s.client.WithToken(auth.TokenFrom(r.Context()))

	result, err := s.agg.Aggregate(r.Context(), client)
	if err != nil {
		var signal *models.ErrorSignal
		if errors.As(err, &signal) {
			s.logger.Warn("Aggregation failed upstream", logging.WithField("status", signal.StatusCode))
			s.writeJSON(w, http.StatusOK, Envelope{Data: signal, ErrorCode: signal.StatusCode})
			return
		}

		s.logger.Error("Aggregation failed", logging.WithField("error", err.Error()))
		s.writeJSON(w, http.StatusInternalServerError, Envelope{ErrorCode: http.StatusInternalServerError})
		return
	}

	s.writeJSON(w, http.StatusOK, Envelope{Data: result})
}

// handlePing reports whether the Webex API answers for the caller's token
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	client := s.client.WithToken(auth.TokenFrom(r.Context()))
	success := client.Ping(r.Context())

	s.writeJSON(w, http.StatusOK, Envelope{
		Data: map[string]bool{"success": success},
	})
}
