// Package events defines dispatch events and the publishers that deliver them.
package events

import (
	"fmt"

	"github.com/morezero/skill-dispatcher/pkg/commsutil"
)

// Outcome values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// DispatchedEvent is emitted once per Dispatch call, after the handler returns.
type DispatchedEvent struct {
	ID         string `json:"id"`
	RequestID  string `json:"requestId,omitempty"`
	SessionID  string `json:"sessionId,omitempty"`
	Kind       string `json:"kind"`
	Intent     string `json:"intent,omitempty"`
	Route      string `json:"route"`
	Outcome    string `json:"outcome"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"durationMs"`
	Timestamp  string `json:"timestamp"`
}

// DecodeDispatchedEvent parses a JSON-encoded event.
func DecodeDispatchedEvent(data []byte) (*DispatchedEvent, error) {
	ev, err := commsutil.DecodePayload[DispatchedEvent](data)
	if err != nil {
		return nil, fmt.Errorf("events:types - failed to decode event: %w", err)
	}
	if ev.Kind == "" || ev.Route == "" {
		return nil, fmt.Errorf("events:types - event %q is missing kind or route", ev.ID)
	}
	return ev, nil
}
