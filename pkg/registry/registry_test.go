package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morezero/skill-dispatcher/pkg/skill"
)

// speaking returns an intent handler whose response says text.
func speaking(text string) IntentHandler {
	return func(_ context.Context, _ *skill.Envelope, _ *skill.IntentRequest, _ *skill.InvocationContext) (*skill.Response, error) {
		return skill.Tell(text), nil
	}
}

func callIntent(t *testing.T, h IntentHandler, name string) string {
	t.Helper()
	require.NotNil(t, h)
	req := &skill.IntentRequest{Intent: skill.Intent{Name: name}}
	resp, err := h(context.Background(), &skill.Envelope{Request: req}, req, nil)
	require.NoError(t, err)
	require.NotNil(t, resp.Body.OutputSpeech)
	return resp.Body.OutputSpeech.Text
}

func TestNewRegistry_Empty(t *testing.T) {
	r := NewRegistry()

	assert.Nil(t, r.AudioPlayer())
	assert.Nil(t, r.Launch())
	assert.Nil(t, r.PlaybackController())
	assert.Nil(t, r.SessionEnded())
	assert.Nil(t, r.SystemException())
	assert.Nil(t, r.DefaultIntent())
	assert.Empty(t, r.IntentNames())

	require.NotNil(t, r.Default())
	resp, err := r.Default()(context.Background(), &skill.Envelope{}, nil)
	require.NoError(t, err)
	assert.True(t, resp.IsEmpty())
}

func TestRegisterIntentHandlers_SetsEveryName(t *testing.T) {
	r := NewRegistry()
	r.RegisterIntentHandler("first", speaking("old"))

	r.RegisterIntentHandlers([]string{"first", "second"}, speaking("new"))

	h1, ok := r.Intent("first")
	require.True(t, ok)
	h2, ok := r.Intent("second")
	require.True(t, ok)
	assert.Equal(t, "new", callIntent(t, h1, "first"))
	assert.Equal(t, "new", callIntent(t, h2, "second"))
}

func TestRegisterIntentHandlers_EmptyNamesIsNoOp(t *testing.T) {
	r := NewRegistry()
	r.RegisterIntentHandlers(nil, speaking("x"))
	r.RegisterIntentHandlers([]string{}, speaking("x"))
	assert.Empty(t, r.IntentNames())
}

func TestRegisterIntentHandler_LastRegistrationWins(t *testing.T) {
	r := NewRegistry()
	r.RegisterIntentHandler("Stop", speaking("first"))
	r.RegisterIntentHandler("Stop", speaking("second"))

	h, ok := r.Intent("Stop")
	require.True(t, ok)
	assert.Equal(t, "second", callIntent(t, h, "Stop"))
	assert.Equal(t, []string{"Stop"}, r.IntentNames())
}

func TestRegisterIntentHandler_NilKeepsKey(t *testing.T) {
	r := NewRegistry()
	r.RegisterIntentHandler("Stop", speaking("stop"))
	r.RegisterIntentHandler("Stop", nil)

	h, ok := r.Intent("Stop")
	assert.True(t, ok)
	assert.Nil(t, h)

	_, ok = r.Intent("Cancel")
	assert.False(t, ok)
}

func TestRegisterSyncIntentHandlers(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.RegisterSyncIntentHandlers([]string{"A", "B"}, func(_ *skill.Envelope, req *skill.IntentRequest, _ *skill.InvocationContext) *skill.Response {
		calls++
		return skill.Tell("sync " + req.Intent.Name)
	})

	a, _ := r.Intent("A")
	b, _ := r.Intent("B")
	assert.Equal(t, "sync A", callIntent(t, a, "A"))
	assert.Equal(t, "sync B", callIntent(t, b, "B"))
	assert.Equal(t, 2, calls)
}

func TestRegisterSyncIntentHandler_NilMeansNoHandler(t *testing.T) {
	r := NewRegistry()
	r.RegisterSyncIntentHandler("Help", nil)

	h, ok := r.Intent("Help")
	assert.True(t, ok)
	assert.Nil(t, h)
}

func TestSync_Nil(t *testing.T) {
	assert.Nil(t, Sync[*skill.LaunchRequest](nil))
	assert.Nil(t, SyncDefault(nil))
}

func TestSyncDefault(t *testing.T) {
	want := skill.Tell("fallback")
	h := SyncDefault(func(_ *skill.Envelope, _ *skill.InvocationContext) *skill.Response { return want })

	got, err := h(context.Background(), &skill.Envelope{}, nil)
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestSetters(t *testing.T) {
	r := NewRegistry()
	marker := skill.Tell("marker")

	r.SetAudioPlayerHandler(func(context.Context, *skill.Envelope, *skill.AudioPlayerRequest, *skill.InvocationContext) (*skill.Response, error) {
		return marker, nil
	})
	r.SetLaunchHandler(Sync(func(*skill.Envelope, *skill.LaunchRequest, *skill.InvocationContext) *skill.Response { return marker }))
	r.SetPlaybackControllerHandler(Sync(func(*skill.Envelope, *skill.PlaybackControllerRequest, *skill.InvocationContext) *skill.Response { return marker }))
	r.SetSessionEndedHandler(Sync(func(*skill.Envelope, *skill.SessionEndedRequest, *skill.InvocationContext) *skill.Response { return marker }))
	r.SetSystemExceptionHandler(Sync(func(*skill.Envelope, *skill.SystemExceptionRequest, *skill.InvocationContext) *skill.Response { return marker }))
	r.SetDefaultIntentHandler(speaking("default intent"))

	assert.NotNil(t, r.AudioPlayer())
	assert.NotNil(t, r.Launch())
	assert.NotNil(t, r.PlaybackController())
	assert.NotNil(t, r.SessionEnded())
	assert.NotNil(t, r.SystemException())
	assert.Equal(t, "default intent", callIntent(t, r.DefaultIntent(), "Any"))

	r.SetLaunchHandler(nil)
	assert.Nil(t, r.Launch())
}

func TestSetDefaultHandler_NilFallsBackToEmpty(t *testing.T) {
	r := NewRegistry()
	r.SetDefaultHandler(SyncDefault(func(*skill.Envelope, *skill.InvocationContext) *skill.Response {
		return skill.Tell("custom")
	}))
	resp, err := r.Default()(context.Background(), &skill.Envelope{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "custom", resp.Body.OutputSpeech.Text)

	r.SetDefaultHandler(nil)
	require.NotNil(t, r.Default())
	resp, err = r.Default()(context.Background(), &skill.Envelope{}, nil)
	require.NoError(t, err)
	assert.True(t, resp.IsEmpty())
}

func TestIntentNames_Sorted(t *testing.T) {
	r := NewRegistry()
	r.RegisterIntentHandlers([]string{"Stop", "AMAZON.HelpIntent", "Cancel"}, speaking("x"))
	assert.Equal(t, []string{"AMAZON.HelpIntent", "Cancel", "Stop"}, r.IntentNames())
}
