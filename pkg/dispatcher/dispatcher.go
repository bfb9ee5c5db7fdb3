// Package dispatcher routes skill envelopes to the handlers held by a registry.
package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/morezero/skill-dispatcher/pkg/events"
	"github.com/morezero/skill-dispatcher/pkg/registry"
	"github.com/morezero/skill-dispatcher/pkg/skill"
)

const logPrefix = "dispatcher:dispatcher"

// Route identifies which handler a request was sent to.
type Route int

const (
	// RouteDefault is the global fallback handler.
	RouteDefault Route = iota
	// RouteKind is the dedicated slot for the request kind.
	RouteKind
	// RouteIntent is the handler registered for the intent name.
	RouteIntent
	// RouteDefaultIntent is the fallback for unregistered intent names.
	RouteDefaultIntent
)

func (r Route) String() string {
	switch r {
	case RouteKind:
		return "kind"
	case RouteIntent:
		return "intent"
	case RouteDefaultIntent:
		return "defaultIntent"
	default:
		return "default"
	}
}

// NewDispatcherParams holds the dependencies of a Dispatcher.
type NewDispatcherParams struct {
	// Registry holds the handlers. Nil means an empty registry.
	Registry *registry.Registry
	// Publisher receives one event per dispatch. Nil means NoOpPublisher.
	// It runs on the caller's goroutine with the caller's ctx after the handler
	// returns, so its latency adds to every Dispatch.
	Publisher events.EventPublisher
}

// Dispatcher selects and invokes one handler per envelope.
type Dispatcher struct {
	registry  *registry.Registry
	publisher events.EventPublisher
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(params NewDispatcherParams) *Dispatcher {
	reg := params.Registry
	if reg == nil {
		reg = registry.NewRegistry()
	}
	pub := params.Publisher
	if pub == nil {
		pub = &events.NoOpPublisher{}
	}
	return &Dispatcher{registry: reg, publisher: pub}
}

// Registry returns the registry the dispatcher reads from.
func (d *Dispatcher) Registry() *registry.Registry {
	return d.registry
}

// Dispatch routes env to exactly one handler and returns that handler's response
// and error unchanged. It blocks until the handler returns.
func (d *Dispatcher) Dispatch(ctx context.Context, env *skill.Envelope, ictx *skill.InvocationContext) (*skill.Response, error) {
	start := time.Now()
	route, call := d.route(env, ictx)

	slog.Debug(fmt.Sprintf("%s - kind=%s route=%s request=%s", logPrefix, env.Kind(), route, env.RequestID()))

	resp, err := call(ctx)
	d.publish(ctx, env, route, time.Since(start), err)
	return resp, err
}

// Resolve reports which handler Dispatch would invoke for env, without invoking it.
func (d *Dispatcher) Resolve(env *skill.Envelope) Route {
	route, _ := d.route(env, nil)
	return route
}

type call func(ctx context.Context) (*skill.Response, error)

func (d *Dispatcher) route(env *skill.Envelope, ictx *skill.InvocationContext) (Route, call) {
	reg := d.registry
	fallback := func(ctx context.Context) (*skill.Response, error) {
		return reg.Default()(ctx, env, ictx)
	}
	if env == nil {
		return RouteDefault, fallback
	}

	switch req := env.Request.(type) {
	case *skill.AudioPlayerRequest:
		return invoke(reg.AudioPlayer(), env, req, ictx, fallback)
	case *skill.IntentRequest:
		if h, ok := reg.Intent(intentName(req)); ok && h != nil {
			return RouteIntent, bind(h, env, req, ictx)
		}
		if h := reg.DefaultIntent(); h != nil {
			return RouteDefaultIntent, bind(h, env, req, ictx)
		}
		return RouteDefault, fallback
	case *skill.LaunchRequest:
		return invoke(reg.Launch(), env, req, ictx, fallback)
	case *skill.PlaybackControllerRequest:
		return invoke(reg.PlaybackController(), env, req, ictx, fallback)
	case *skill.SessionEndedRequest:
		return invoke(reg.SessionEnded(), env, req, ictx, fallback)
	case *skill.SystemExceptionRequest:
		return invoke(reg.SystemException(), env, req, ictx, fallback)
	default:
		return RouteDefault, fallback
	}
}

// invoke selects the kind slot h, or fallback when h is nil.
func invoke[R skill.Request](h registry.Handler[R], env *skill.Envelope, req R, ictx *skill.InvocationContext, fallback call) (Route, call) {
	if h == nil {
		return RouteDefault, fallback
	}
	return RouteKind, bind(h, env, req, ictx)
}

func bind[R skill.Request](h registry.Handler[R], env *skill.Envelope, req R, ictx *skill.InvocationContext) call {
	return func(ctx context.Context) (*skill.Response, error) {
		return h(ctx, env, req, ictx)
	}
}

func intentName(req *skill.IntentRequest) string {
	if req == nil {
		return ""
	}
	return req.Intent.Name
}

func (d *Dispatcher) publish(ctx context.Context, env *skill.Envelope, route Route, elapsed time.Duration, handlerErr error) {
	event := &events.DispatchedEvent{
		ID:         uuid.NewString(),
		RequestID:  env.RequestID(),
		SessionID:  env.SessionID(),
		Kind:       env.Kind().String(),
		Route:      route.String(),
		Outcome:    events.OutcomeOK,
		DurationMs: elapsed.Milliseconds(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
	}
	if env != nil {
		if req, ok := env.Request.(*skill.IntentRequest); ok {
			event.Intent = intentName(req)
		}
	}
	if handlerErr != nil {
		event.Outcome = events.OutcomeError
		event.Error = handlerErr.Error()
	}

	if err := d.publisher.PublishDispatched(ctx, event); err != nil {
		slog.Warn(fmt.Sprintf("%s - failed to publish dispatch event %s: %v", logPrefix, event.ID, err))
	}
}
