package db

import "time"

// DispatchRecord represents a row in the dispatch_log table.
type DispatchRecord struct {
	ID           string    `json:"id"`
	RequestID    *string   `json:"request_id,omitempty"`
	SessionID    *string   `json:"session_id,omitempty"`
	Kind         string    `json:"kind"`
	Intent       *string   `json:"intent,omitempty"`
	Route        string    `json:"route"`
	Outcome      string    `json:"outcome"`
	Error        *string   `json:"error,omitempty"`
	DurationMs   int64     `json:"duration_ms"`
	DispatchedAt time.Time `json:"dispatched_at"`
}

// RouteCount is the number of dispatches for one kind/route pair.
type RouteCount struct {
	Kind   string `json:"kind"`
	Route  string `json:"route"`
	Count  int    `json:"count"`
	Errors int    `json:"errors"`
}
