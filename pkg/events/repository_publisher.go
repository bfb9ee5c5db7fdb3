package events

import (
	"context"
	"fmt"
	"time"

	"github.com/morezero/skill-dispatcher/pkg/db"
)

const repositoryPublisherLogPrefix = "events:repository_publisher"

// DispatchRecorder persists dispatch records. *db.Repository implements it.
type DispatchRecorder interface {
	InsertDispatch(ctx context.Context, rec db.DispatchRecord) error
}

// RepositoryPublisher writes every event to the dispatch log.
type RepositoryPublisher struct {
	recorder DispatchRecorder
}

// NewRepositoryPublisher creates a new RepositoryPublisher.
func NewRepositoryPublisher(recorder DispatchRecorder) *RepositoryPublisher {
	return &RepositoryPublisher{recorder: recorder}
}

// PublishDispatched inserts the event as a dispatch_log row.
func (p *RepositoryPublisher) PublishDispatched(ctx context.Context, event *DispatchedEvent) error {
	if err := p.recorder.InsertDispatch(ctx, ToRecord(event)); err != nil {
		return fmt.Errorf("%s - failed to record event %s: %w", repositoryPublisherLogPrefix, event.ID, err)
	}
	return nil
}

// ToRecord converts an event to a dispatch_log row. An unparseable timestamp
// leaves DispatchedAt zero so the database clock is used.
func ToRecord(event *DispatchedEvent) db.DispatchRecord {
	rec := db.DispatchRecord{
		ID:         event.ID,
		RequestID:  optional(event.RequestID),
		SessionID:  optional(event.SessionID),
		Kind:       event.Kind,
		Intent:     optional(event.Intent),
		Route:      event.Route,
		Outcome:    event.Outcome,
		Error:      optional(event.Error),
		DurationMs: event.DurationMs,
	}
	if ts, err := time.Parse(time.RFC3339Nano, event.Timestamp); err == nil {
		rec.DispatchedAt = ts
	}
	return rec
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
