package models

import "fmt"

// ErrorSignal carries a failing upstream status and body so the host can
// render an error state. Fatal upstream failures (rooms, messages, the
// caller's own identity) surface as this type; individual person lookups
// never do more than degrade their own items.
type ErrorSignal struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body,omitempty"`
}

func (e *ErrorSignal) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}
