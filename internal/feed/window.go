package feed

import (
	"time"

	"github.com/adenin-connectors/webex-teams/internal/models"
)

// IsRecent reports whether t falls inside the recency horizon ending at now.
// The boundary itself is excluded: t must be strictly after now-horizon.
func IsRecent(t, now time.Time, horizon time.Duration) bool {
	return t.After(now.Add(-horizon))
}

// FilterRecent keeps the leading run of messages inside the horizon.
// Messages arrive newest first and feeds are contiguous in time, so the
// scan stops at the first stale message instead of continuing past it.
func FilterRecent(messages []models.RawMessage, now time.Time, horizon time.Duration) []models.RawMessage {
	recent := make([]models.RawMessage, 0, len(messages))
	for _, m := range messages {
		if !IsRecent(m.Created, now, horizon) {
			break
		}
		recent = append(recent, m)
	}
	return recent
}
