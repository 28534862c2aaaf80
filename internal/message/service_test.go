package message

import (
	"testing"
	"time"
)

func TestRenderTranscript(t *testing.T) {
	now := time.Now()
	history := []Message{
		{Sender: "assistant", Body: "Hello! How can I help?", CreatedAt: now},
		{Sender: "user", Body: "I'm moving next month.", CreatedAt: now},
	}

	got := RenderTranscript(history)
	want := "Assistant: Hello! How can I help?\nUser: I'm moving next month."
	if got != want {
		t.Fatalf("RenderTranscript = %q, want %q", got, want)
	}
}

func TestRenderTranscriptEmpty(t *testing.T) {
	if got := RenderTranscript(nil); got != "" {
		t.Fatalf("RenderTranscript(nil) = %q, want empty", got)
	}
}
