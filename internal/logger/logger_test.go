package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.in); got != tc.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestContextRoundTrip(t *testing.T) {
	base := slog.Default().With(slog.String("component", "test"))
	ctx := WithContext(context.Background(), base)
	if got := FromContext(ctx); got != base {
		t.Fatal("FromContext should return the stored logger")
	}
	if got := FromContext(context.Background()); got == nil {
		t.Fatal("FromContext without a stored logger should fall back to the default")
	}
}
