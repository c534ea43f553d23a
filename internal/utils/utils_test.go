package utils

import (
	"context"
	"testing"
	"time"
)

func TestWaitForReturnsImmediatelyOnNonPositiveDuration(t *testing.T) {
	t.Parallel()

	if err := WaitFor(context.Background(), 0); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestWaitForCompletesAfterSleep(t *testing.T) {
	original := sleep
	slept := time.Duration(0)
	sleep = func(d time.Duration) { slept = d }
	defer func() { sleep = original }()

	if err := WaitFor(context.Background(), 2*time.Second); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if slept != 2*time.Second {
		t.Fatalf("expected sleep of 2s, got %v", slept)
	}
}

func TestWaitForHonorsCancellation(t *testing.T) {
	original := sleep
	sleep = func(time.Duration) { select {} }
	defer func() { sleep = original }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := WaitFor(ctx, time.Minute); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
