package registry

import (
	"context"

	"github.com/morezero/skill-dispatcher/pkg/skill"
)

// Handler handles one request variant. It receives the full envelope, the
// narrowed request and the invocation context, and may block.
type Handler[R skill.Request] func(ctx context.Context, env *skill.Envelope, req R, ictx *skill.InvocationContext) (*skill.Response, error)

// Handler shapes for each slot.
type (
	AudioPlayerHandler        = Handler[*skill.AudioPlayerRequest]
	IntentHandler             = Handler[*skill.IntentRequest]
	LaunchHandler             = Handler[*skill.LaunchRequest]
	PlaybackControllerHandler = Handler[*skill.PlaybackControllerRequest]
	SessionEndedHandler       = Handler[*skill.SessionEndedRequest]
	SystemExceptionHandler    = Handler[*skill.SystemExceptionRequest]
)

// DefaultHandler is the global fallback. It sees only the envelope.
type DefaultHandler func(ctx context.Context, env *skill.Envelope, ictx *skill.InvocationContext) (*skill.Response, error)

// SyncHandler is a handler that cannot fail and does not need a context.
type SyncHandler[R skill.Request] func(env *skill.Envelope, req R, ictx *skill.InvocationContext) *skill.Response

// SyncIntentHandler is the synchronous intent handler shape.
type SyncIntentHandler = SyncHandler[*skill.IntentRequest]

// Sync lifts a synchronous handler into the Handler shape. Sync(nil) is nil, so a
// nil synchronous registration still means "no handler".
func Sync[R skill.Request](fn SyncHandler[R]) Handler[R] {
	if fn == nil {
		return nil
	}
	return func(_ context.Context, env *skill.Envelope, req R, ictx *skill.InvocationContext) (*skill.Response, error) {
		return fn(env, req, ictx), nil
	}
}

// SyncDefault lifts a synchronous global fallback into the DefaultHandler shape.
func SyncDefault(fn func(env *skill.Envelope, ictx *skill.InvocationContext) *skill.Response) DefaultHandler {
	if fn == nil {
		return nil
	}
	return func(_ context.Context, env *skill.Envelope, ictx *skill.InvocationContext) (*skill.Response, error) {
		return fn(env, ictx), nil
	}
}

// emptyDefault answers every request with skill.Empty().
func emptyDefault(_ context.Context, _ *skill.Envelope, _ *skill.InvocationContext) (*skill.Response, error) {
	return skill.Empty(), nil
}
