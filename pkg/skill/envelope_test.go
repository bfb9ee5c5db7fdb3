package skill

import (
	"encoding/json"
	"testing"
	"time"
)

const envelopeTestPrefix = "skill:envelope_test"

func TestEnvelope_Kind(t *testing.T) {
	tests := []struct {
		name string
		env  *Envelope
		want Kind
	}{
		{"nil envelope", nil, KindUnrecognized},
		{"nil request", &Envelope{}, KindUnrecognized},
		{"audio player", &Envelope{Request: &AudioPlayerRequest{}}, KindAudioPlayer},
		{"intent", &Envelope{Request: &IntentRequest{Intent: Intent{Name: "Stop"}}}, KindIntent},
		{"launch", &Envelope{Request: &LaunchRequest{}}, KindLaunch},
		{"playback controller", &Envelope{Request: &PlaybackControllerRequest{}}, KindPlaybackController},
		{"session ended", &Envelope{Request: &SessionEndedRequest{}}, KindSessionEnded},
		{"system exception", &Envelope{Request: &SystemExceptionRequest{}}, KindSystemException},
		{"unknown", &Envelope{Request: &UnknownRequest{}}, KindUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.env.Kind(); got != tt.want {
				t.Errorf("%s - Kind() = %v, want %v", envelopeTestPrefix, got, tt.want)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	if KindIntent.String() != "intent" {
		t.Errorf("%s - KindIntent.String() = %q", envelopeTestPrefix, KindIntent.String())
	}
	if Kind(99).String() != "unrecognized" {
		t.Errorf("%s - out-of-range kind should stringify as unrecognized, got %q", envelopeTestPrefix, Kind(99).String())
	}
}

func TestEnvelope_IDs(t *testing.T) {
	env := &Envelope{
		Session: &Session{SessionID: "sess-1"},
		Request: &LaunchRequest{RequestBase: RequestBase{Type: "LaunchRequest", RequestID: "req-1"}},
	}
	if env.RequestID() != "req-1" {
		t.Errorf("%s - RequestID() = %q, want req-1", envelopeTestPrefix, env.RequestID())
	}
	if env.SessionID() != "sess-1" {
		t.Errorf("%s - SessionID() = %q, want sess-1", envelopeTestPrefix, env.SessionID())
	}

	var empty *Envelope
	if empty.RequestID() != "" || empty.SessionID() != "" {
		t.Errorf("%s - expected empty ids for nil envelope", envelopeTestPrefix)
	}
}

func TestBaseOf_TypedNil(t *testing.T) {
	reqs := []Request{
		nil,
		(*AudioPlayerRequest)(nil),
		(*IntentRequest)(nil),
		(*LaunchRequest)(nil),
		(*PlaybackControllerRequest)(nil),
		(*SessionEndedRequest)(nil),
		(*SystemExceptionRequest)(nil),
		(*UnknownRequest)(nil),
	}
	for _, req := range reqs {
		if got := BaseOf(req); got != (RequestBase{}) {
			t.Errorf("%s - BaseOf(%T) = %+v, want zero", envelopeTestPrefix, req, got)
		}
		env := &Envelope{Request: req}
		if env.RequestID() != "" {
			t.Errorf("%s - RequestID() for %T = %q, want empty", envelopeTestPrefix, req, env.RequestID())
		}
	}

	base := RequestBase{Type: "IntentRequest", RequestID: "req-2", Locale: "en-GB"}
	if got := BaseOf(&IntentRequest{RequestBase: base}); got != base {
		t.Errorf("%s - BaseOf = %+v, want %+v", envelopeTestPrefix, got, base)
	}
}

func TestEmpty(t *testing.T) {
	resp := Empty()
	if resp.Version != ResponseVersion {
		t.Errorf("%s - Version = %q, want %q", envelopeTestPrefix, resp.Version, ResponseVersion)
	}
	if !resp.IsEmpty() {
		t.Errorf("%s - Empty() should report IsEmpty", envelopeTestPrefix)
	}
	if Tell("bye").IsEmpty() {
		t.Errorf("%s - Tell() should not report IsEmpty", envelopeTestPrefix)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("%s - marshal failed: %v", envelopeTestPrefix, err)
	}
	if string(data) != `{"version":"1.0","response":{}}` {
		t.Errorf("%s - Empty() JSON = %s", envelopeTestPrefix, data)
	}
}

func TestAsk_KeepsSessionOpen(t *testing.T) {
	resp := Ask("What next?", "Are you still there?")
	if resp.Body.ShouldEndSession == nil || *resp.Body.ShouldEndSession {
		t.Fatalf("%s - Ask() should keep the session open", envelopeTestPrefix)
	}
	if resp.Body.Reprompt == nil || resp.Body.Reprompt.OutputSpeech.Text != "Are you still there?" {
		t.Errorf("%s - unexpected reprompt %+v", envelopeTestPrefix, resp.Body.Reprompt)
	}
}

func TestInvocationContext_RemainingTime(t *testing.T) {
	var nilCtx *InvocationContext
	if nilCtx.RemainingTime() != 0 {
		t.Errorf("%s - nil context should have no remaining time", envelopeTestPrefix)
	}
	past := &InvocationContext{Deadline: time.Now().Add(-time.Second)}
	if past.RemainingTime() != 0 {
		t.Errorf("%s - past deadline should have no remaining time", envelopeTestPrefix)
	}
	future := &InvocationContext{Deadline: time.Now().Add(time.Minute)}
	if future.RemainingTime() <= 0 {
		t.Errorf("%s - future deadline should have remaining time", envelopeTestPrefix)
	}
}
