// Package skill defines the request envelope, invocation context and response
// types exchanged with a voice-assistant skill backend.
package skill

import "time"

// Kind classifies the request carried by an Envelope.
type Kind int

// Request kinds.
const (
	KindUnrecognized Kind = iota
	KindAudioPlayer
	KindIntent
	KindLaunch
	KindPlaybackController
	KindSessionEnded
	KindSystemException
)

var kindNames = map[Kind]string{
	KindUnrecognized:       "unrecognized",
	KindAudioPlayer:        "audioPlayer",
	KindIntent:             "intent",
	KindLaunch:             "launch",
	KindPlaybackController: "playbackController",
	KindSessionEnded:       "sessionEnded",
	KindSystemException:    "systemException",
}

// String returns the lower-camel name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnrecognized]
}

// Envelope is one inbound interaction turn.
type Envelope struct {
	Version string   `json:"version"`
	Session *Session `json:"session,omitempty"`
	Context *Context `json:"context,omitempty"`
	Request Request  `json:"request"`
}

// Kind returns the kind of the wrapped request. A nil envelope or request is unrecognized.
func (e *Envelope) Kind() Kind {
	if e == nil || e.Request == nil {
		return KindUnrecognized
	}
	return e.Request.Kind()
}

// RequestID returns the id of the wrapped request, or "". A typed-nil request has no id.
func (e *Envelope) RequestID() string {
	if e == nil {
		return ""
	}
	return BaseOf(e.Request).RequestID
}

// SessionID returns the session id, or "" when there is no session.
func (e *Envelope) SessionID() string {
	if e == nil || e.Session == nil {
		return ""
	}
	return e.Session.SessionID
}

// Session holds per-conversation state.
type Session struct {
	New         bool                   `json:"new"`
	SessionID   string                 `json:"sessionId"`
	Application Application            `json:"application"`
	Attributes  map[string]interface{} `json:"attributes,omitempty"`
	User        User                   `json:"user"`
}

// Context holds device and system state sent with every request.
type Context struct {
	System      System       `json:"System"`
	AudioPlayer *AudioPlayer `json:"AudioPlayer,omitempty"`
}

// System describes the calling application, user and device.
type System struct {
	Application    Application `json:"application"`
	User           User        `json:"user"`
	DeviceID       string      `json:"deviceId,omitempty"`
	APIEndpoint    string      `json:"apiEndpoint,omitempty"`
	APIAccessToken string      `json:"apiAccessToken,omitempty"`
}

// AudioPlayer is the playback state reported by the device.
type AudioPlayer struct {
	Token                string `json:"token,omitempty"`
	OffsetInMilliseconds int64  `json:"offsetInMilliseconds,omitempty"`
	PlayerActivity       string `json:"playerActivity,omitempty"`
}

// Application identifies the skill.
type Application struct {
	ApplicationID string `json:"applicationId"`
}

// User identifies the account that invoked the skill.
type User struct {
	UserID      string `json:"userId"`
	AccessToken string `json:"accessToken,omitempty"`
}

// Request is the tagged union of request variants. It is sealed: only the
// types in this package implement it.
type Request interface {
	Kind() Kind
	base() *RequestBase
}

// BaseOf returns the common fields of r. A nil request, or a nil pointer of any
// variant, yields the zero RequestBase.
func BaseOf(r Request) RequestBase {
	if r == nil {
		return RequestBase{}
	}
	if b := r.base(); b != nil {
		return *b
	}
	return RequestBase{}
}

// RequestBase holds the fields common to every request variant.
type RequestBase struct {
	Type      string    `json:"type"`
	RequestID string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
	Locale    string    `json:"locale,omitempty"`
}

// AudioPlayerRequest reports an AudioPlayer.* playback event.
type AudioPlayerRequest struct {
	RequestBase
	Token                string `json:"token,omitempty"`
	OffsetInMilliseconds int64  `json:"offsetInMilliseconds,omitempty"`
}

// Kind implements Request.
func (*AudioPlayerRequest) Kind() Kind { return KindAudioPlayer }

func (r *AudioPlayerRequest) base() *RequestBase {
	if r == nil {
		return nil
	}
	return &r.RequestBase
}

// IntentRequest carries a recognized intent.
type IntentRequest struct {
	RequestBase
	DialogState string `json:"dialogState,omitempty"`
	Intent      Intent `json:"intent"`
}

// Kind implements Request.
func (*IntentRequest) Kind() Kind { return KindIntent }

func (r *IntentRequest) base() *RequestBase {
	if r == nil {
		return nil
	}
	return &r.RequestBase
}

// Intent is the named sub-classification of an IntentRequest.
type Intent struct {
	Name               string          `json:"name"`
	ConfirmationStatus string          `json:"confirmationStatus,omitempty"`
	Slots              map[string]Slot `json:"slots,omitempty"`
}

// Slot is one intent argument.
type Slot struct {
	Name               string `json:"name"`
	Value              string `json:"value,omitempty"`
	ConfirmationStatus string `json:"confirmationStatus,omitempty"`
}

// LaunchRequest is sent when the user opens the skill without an intent.
type LaunchRequest struct {
	RequestBase
}

// Kind implements Request.
func (*LaunchRequest) Kind() Kind { return KindLaunch }

func (r *LaunchRequest) base() *RequestBase {
	if r == nil {
		return nil
	}
	return &r.RequestBase
}

// PlaybackControllerRequest reports a hardware or on-screen media button press.
type PlaybackControllerRequest struct {
	RequestBase
}

// Kind implements Request.
func (*PlaybackControllerRequest) Kind() Kind { return KindPlaybackController }

func (r *PlaybackControllerRequest) base() *RequestBase {
	if r == nil {
		return nil
	}
	return &r.RequestBase
}

// SessionEndedRequest is sent when the session closes for a reason other than the skill ending it.
type SessionEndedRequest struct {
	RequestBase
	Reason string      `json:"reason,omitempty"`
	Error  *ErrorCause `json:"error,omitempty"`
}

// Kind implements Request.
func (*SessionEndedRequest) Kind() Kind { return KindSessionEnded }

func (r *SessionEndedRequest) base() *RequestBase {
	if r == nil {
		return nil
	}
	return &r.RequestBase
}

// SystemExceptionRequest reports that a previous response from the skill failed.
type SystemExceptionRequest struct {
	RequestBase
	Error ErrorCause `json:"error"`
	Cause struct {
		RequestID string `json:"requestId"`
	} `json:"cause"`
}

// Kind implements Request.
func (*SystemExceptionRequest) Kind() Kind { return KindSystemException }

func (r *SystemExceptionRequest) base() *RequestBase {
	if r == nil {
		return nil
	}
	return &r.RequestBase
}

// ErrorCause describes a platform-reported error.
type ErrorCause struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// UnknownRequest carries any request type this package does not model.
type UnknownRequest struct {
	RequestBase
}

// Kind implements Request.
func (*UnknownRequest) Kind() Kind { return KindUnrecognized }

func (r *UnknownRequest) base() *RequestBase {
	if r == nil {
		return nil
	}
	return &r.RequestBase
}
