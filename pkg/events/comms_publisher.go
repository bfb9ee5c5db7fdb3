package events

import (
	"context"
	"fmt"
	"log/slog"

	comms "github.com/nats-io/nats.go"

	"github.com/morezero/skill-dispatcher/pkg/commsutil"
)

const commsPublisherLogPrefix = "events:comms_publisher"

// CommsPublisherOpts configures CommsPublisher. Nil or zero values use defaults.
type CommsPublisherOpts struct {
	// BaseSubject overrides SubjectDispatched (e.g. from DISPATCH_EVENT_SUBJECT).
	BaseSubject string
}

// CommsPublisher publishes dispatch events to COMMS subjects.
type CommsPublisher struct {
	nc          *comms.Conn
	baseSubject string
}

// NewCommsPublisher creates a new CommsPublisher. Pass nil for opts to use defaults.
func NewCommsPublisher(nc *comms.Conn, opts *CommsPublisherOpts) *CommsPublisher {
	base := commsutil.SubjectDispatched
	if opts != nil && opts.BaseSubject != "" {
		base = opts.BaseSubject
	}
	return &CommsPublisher{nc: nc, baseSubject: base}
}

// PublishDispatched publishes the event to the per-kind subject and the base subject.
func (p *CommsPublisher) PublishDispatched(_ context.Context, event *DispatchedEvent) error {
	data, err := commsutil.EncodePayload(event)
	if err != nil {
		return fmt.Errorf("%s - failed to encode event: %w", commsPublisherLogPrefix, err)
	}

	kindSubject := commsutil.BuildDispatchedSubject(p.baseSubject, event.Kind)
	if err := p.nc.Publish(kindSubject, data); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to publish to %s: %v", commsPublisherLogPrefix, kindSubject, err))
		return err
	}

	if err := p.nc.Publish(p.baseSubject, data); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to publish to %s: %v", commsPublisherLogPrefix, p.baseSubject, err))
		return err
	}

	slog.Debug(fmt.Sprintf("%s - Published dispatch event %s (%s/%s)", commsPublisherLogPrefix, event.ID, event.Kind, event.Route))
	return nil
}
