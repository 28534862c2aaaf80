package conversation

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockDeactivator struct {
	DeactivateIdleFunc func(ctx context.Context, idleFor time.Duration) (int64, error)
}

func (m *mockDeactivator) DeactivateIdle(ctx context.Context, idleFor time.Duration) (int64, error) {
	return m.DeactivateIdleFunc(ctx, idleFor)
}

func TestNewSweeperValidation(t *testing.T) {
	deactivator := &mockDeactivator{DeactivateIdleFunc: func(_ context.Context, _ time.Duration) (int64, error) {
		return 0, nil
	}}

	if _, err := NewSweeper(nil, deactivator, "not a schedule", 30*time.Minute); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
	if _, err := NewSweeper(nil, deactivator, "*/10 * * * *", 0); err == nil {
		t.Fatal("expected error for non-positive ttl")
	}
	if _, err := NewSweeper(nil, deactivator, "@hourly", 30*time.Minute); err != nil {
		t.Fatalf("descriptor schedule rejected: %v", err)
	}
}

func TestSweepPassesTTL(t *testing.T) {
	var gotTTL time.Duration
	deactivator := &mockDeactivator{DeactivateIdleFunc: func(_ context.Context, idleFor time.Duration) (int64, error) {
		gotTTL = idleFor
		return 3, nil
	}}

	s, err := NewSweeper(nil, deactivator, "*/10 * * * *", 45*time.Minute)
	if err != nil {
		t.Fatalf("NewSweeper: %v", err)
	}
	s.sweep()
	if gotTTL != 45*time.Minute {
		t.Fatalf("ttl = %s, want 45m", gotTTL)
	}
}

func TestSweepLogsAndSwallowsErrors(t *testing.T) {
	deactivator := &mockDeactivator{DeactivateIdleFunc: func(_ context.Context, _ time.Duration) (int64, error) {
		return 0, errors.New("connection refused")
	}}

	s, err := NewSweeper(nil, deactivator, "*/10 * * * *", 30*time.Minute)
	if err != nil {
		t.Fatalf("NewSweeper: %v", err)
	}
	// Must not panic; the next scheduled run retries.
	s.sweep()
}
