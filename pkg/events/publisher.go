package events

import (
	"context"
	"errors"
)

// EventPublisher delivers dispatch events.
type EventPublisher interface {
	PublishDispatched(ctx context.Context, event *DispatchedEvent) error
}

// NoOpPublisher is an EventPublisher that does nothing (the Dispatcher default).
type NoOpPublisher struct{}

// PublishDispatched is a no-op.
func (p *NoOpPublisher) PublishDispatched(_ context.Context, _ *DispatchedEvent) error {
	return nil
}

// CallbackPublisher is an EventPublisher that calls a callback function (for testing).
type CallbackPublisher struct {
	callback func(ctx context.Context, event *DispatchedEvent) error
}

// NewCallbackPublisher creates a new CallbackPublisher.
func NewCallbackPublisher(cb func(ctx context.Context, event *DispatchedEvent) error) *CallbackPublisher {
	return &CallbackPublisher{callback: cb}
}

// PublishDispatched calls the callback.
func (p *CallbackPublisher) PublishDispatched(ctx context.Context, event *DispatchedEvent) error {
	return p.callback(ctx, event)
}

// MultiPublisher fans an event out to several publishers. Every publisher is
// tried; failures are joined.
type MultiPublisher struct {
	publishers []EventPublisher
}

// NewMultiPublisher creates a MultiPublisher, skipping nil entries.
func NewMultiPublisher(publishers ...EventPublisher) *MultiPublisher {
	m := &MultiPublisher{}
	for _, p := range publishers {
		if p != nil {
			m.publishers = append(m.publishers, p)
		}
	}
	return m
}

// PublishDispatched publishes to every publisher in order.
func (m *MultiPublisher) PublishDispatched(ctx context.Context, event *DispatchedEvent) error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.PublishDispatched(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
