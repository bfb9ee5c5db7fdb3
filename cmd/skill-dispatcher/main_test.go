package main

import (
	"strings"
	"testing"

	"github.com/morezero/skill-dispatcher/pkg/skill"
)

const mainTestPrefix = "cmd/skill-dispatcher:main_test"

func TestUsage_ContainsCommands(t *testing.T) {
	required := []string{"migrate", "ensure-db", "clear", "recent", "tail", "probe", "DATABASE_URL", "COMMS_URL"}
	for _, word := range required {
		if !strings.Contains(usage, word) {
			t.Errorf("%s - usage should contain %q", mainTestPrefix, word)
		}
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		arg     string
		want    int
		wantErr bool
	}{
		{"", 20, false},
		{"5", 5, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"many", 0, true},
	}
	for _, tt := range tests {
		got, err := parseLimit(tt.arg, 20)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s - parseLimit(%q) error = %v, wantErr %v", mainTestPrefix, tt.arg, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("%s - parseLimit(%q) = %d, want %d", mainTestPrefix, tt.arg, got, tt.want)
		}
	}
}

func TestProbeEnvelope(t *testing.T) {
	tests := []struct {
		probe string
		want  skill.Kind
	}{
		{"", skill.KindLaunch},
		{"launch", skill.KindLaunch},
		{"intent:AMAZON.StopIntent", skill.KindIntent},
		{"audio-player", skill.KindAudioPlayer},
		{"playback-controller", skill.KindPlaybackController},
		{"session-ended", skill.KindSessionEnded},
		{"system-exception", skill.KindSystemException},
		{"unknown", skill.KindUnrecognized},
	}
	for _, tt := range tests {
		env, err := probeEnvelope(tt.probe)
		if err != nil {
			t.Fatalf("%s - probeEnvelope(%q) unexpected error: %v", mainTestPrefix, tt.probe, err)
		}
		if env.Kind() != tt.want {
			t.Errorf("%s - probeEnvelope(%q) kind = %s, want %s", mainTestPrefix, tt.probe, env.Kind(), tt.want)
		}
		if !strings.HasPrefix(env.RequestID(), "probe-") {
			t.Errorf("%s - probe request id %q should start with probe-", mainTestPrefix, env.RequestID())
		}
	}

	env, _ := probeEnvelope("intent:AMAZON.StopIntent")
	if req, ok := env.Request.(*skill.IntentRequest); !ok || req.Intent.Name != "AMAZON.StopIntent" {
		t.Errorf("%s - intent probe should carry the intent name", mainTestPrefix)
	}
}

func TestProbeEnvelope_Invalid(t *testing.T) {
	for _, probe := range []string{"intent", "intent:", "bogus"} {
		if _, err := probeEnvelope(probe); err == nil {
			t.Errorf("%s - probeEnvelope(%q) expected error", mainTestPrefix, probe)
		}
	}
}
