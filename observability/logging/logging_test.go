package logging

import (
	"log/slog"
	"testing"
)

func TestNormaliseAttr(t *testing.T) {
	levelAttr := normaliseAttr(nil, slog.Any(slog.LevelKey, slog.LevelWarn))
	if levelAttr.Key != "severity" || levelAttr.Value.String() != "WARN" {
		t.Fatalf("level attr = %s=%s", levelAttr.Key, levelAttr.Value)
	}
	msgAttr := normaliseAttr(nil, slog.String(slog.MessageKey, "hello"))
	if msgAttr.Key != "message" || msgAttr.Value.String() != "hello" {
		t.Fatalf("message attr = %s=%s", msgAttr.Key, msgAttr.Value)
	}
	other := normaliseAttr(nil, slog.String("pool", "abc"))
	if other.Key != "pool" {
		t.Fatalf("custom attr renamed to %s", other.Key)
	}
}

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tc := range tests {
		t.Setenv(levelEnvVar, tc.value)
		if got := levelFromEnv(); got != tc.want {
			t.Fatalf("level(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
}
