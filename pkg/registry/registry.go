// Package registry holds the handlers a Dispatcher routes skill requests to.
//
// A Registry is built once at startup and then only read. Registration is not
// synchronized: finish all Set/Register calls before dispatching concurrently.
package registry

import (
	"fmt"
	"log/slog"
	"sort"
)

const logPrefix = "registry:registry"

// Registry maps request kinds, and intent names within the Intent kind, to handlers.
// Every slot except the global default may be nil, meaning "no handler".
type Registry struct {
	audioPlayer        AudioPlayerHandler
	intents            map[string]IntentHandler
	defaultIntent      IntentHandler
	launch             LaunchHandler
	playbackController PlaybackControllerHandler
	sessionEnded       SessionEndedHandler
	systemException    SystemExceptionHandler
	defaultHandler     DefaultHandler
}

// NewRegistry creates an empty Registry whose global default answers with skill.Empty().
func NewRegistry() *Registry {
	return &Registry{
		intents:        make(map[string]IntentHandler),
		defaultHandler: emptyDefault,
	}
}

// RegisterIntentHandlers binds every name to h, replacing earlier bindings.
// A nil h is kept as an explicit "no handler" entry and routes like an unknown name.
func (r *Registry) RegisterIntentHandlers(names []string, h IntentHandler) {
	for _, name := range names {
		r.intents[name] = h
		slog.Debug(fmt.Sprintf("%s - intent=%s registered=%t", logPrefix, name, h != nil))
	}
}

// RegisterIntentHandler binds a single intent name.
func (r *Registry) RegisterIntentHandler(name string, h IntentHandler) {
	r.RegisterIntentHandlers([]string{name}, h)
}

// RegisterSyncIntentHandlers binds every name to a synchronous handler.
func (r *Registry) RegisterSyncIntentHandlers(names []string, h SyncIntentHandler) {
	r.RegisterIntentHandlers(names, Sync(h))
}

// RegisterSyncIntentHandler binds a single intent name to a synchronous handler.
func (r *Registry) RegisterSyncIntentHandler(name string, h SyncIntentHandler) {
	r.RegisterIntentHandlers([]string{name}, Sync(h))
}

// SetAudioPlayerHandler sets the AudioPlayer slot.
func (r *Registry) SetAudioPlayerHandler(h AudioPlayerHandler) { r.audioPlayer = h }

// SetLaunchHandler sets the Launch slot.
func (r *Registry) SetLaunchHandler(h LaunchHandler) { r.launch = h }

// SetPlaybackControllerHandler sets the PlaybackController slot.
func (r *Registry) SetPlaybackControllerHandler(h PlaybackControllerHandler) {
	r.playbackController = h
}

// SetSessionEndedHandler sets the SessionEnded slot.
func (r *Registry) SetSessionEndedHandler(h SessionEndedHandler) { r.sessionEnded = h }

// SetSystemExceptionHandler sets the SystemException slot.
func (r *Registry) SetSystemExceptionHandler(h SystemExceptionHandler) { r.systemException = h }

// SetDefaultIntentHandler sets the fallback for intent names without a handler.
func (r *Registry) SetDefaultIntentHandler(h IntentHandler) { r.defaultIntent = h }

// SetDefaultHandler sets the global fallback. Passing nil is tolerated: Default
// then answers with skill.Empty().
func (r *Registry) SetDefaultHandler(h DefaultHandler) {
	if h == nil {
		slog.Warn(fmt.Sprintf("%s - default handler cleared, falling back to empty responses", logPrefix))
	}
	r.defaultHandler = h
}

// AudioPlayer returns the AudioPlayer slot.
func (r *Registry) AudioPlayer() AudioPlayerHandler { return r.audioPlayer }

// Launch returns the Launch slot.
func (r *Registry) Launch() LaunchHandler { return r.launch }

// PlaybackController returns the PlaybackController slot.
func (r *Registry) PlaybackController() PlaybackControllerHandler { return r.playbackController }

// SessionEnded returns the SessionEnded slot.
func (r *Registry) SessionEnded() SessionEndedHandler { return r.sessionEnded }

// SystemException returns the SystemException slot.
func (r *Registry) SystemException() SystemExceptionHandler { return r.systemException }

// DefaultIntent returns the default intent slot.
func (r *Registry) DefaultIntent() IntentHandler { return r.defaultIntent }

// Intent returns the handler bound to name and whether name was registered at all.
// A registered name may be bound to nil.
func (r *Registry) Intent(name string) (IntentHandler, bool) {
	h, ok := r.intents[name]
	return h, ok
}

// IntentNames returns the registered intent names, sorted.
func (r *Registry) IntentNames() []string {
	names := make([]string, 0, len(r.intents))
	for name := range r.intents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns the global fallback. It is never nil.
func (r *Registry) Default() DefaultHandler {
	if r.defaultHandler == nil {
		return emptyDefault
	}
	return r.defaultHandler
}
