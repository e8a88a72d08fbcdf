// ABOUTME: Tests for the exponential backoff policy
// ABOUTME: Bounds-based checks since jitter randomizes exact delays
package util

import (
	"testing"
	"time"
)

func TestBackoff_NoWaitBeforeFirstAttempt(t *testing.T) {
	b := Backoff{Base: time.Second}

	if got := b.Delay(0); got != 0 {
		t.Errorf("Delay(0) = %v, want 0", got)
	}
	if got := b.Delay(-3); got != 0 {
		t.Errorf("Delay(-3) = %v, want 0", got)
	}
}

func TestBackoff_ZeroBase(t *testing.T) {
	b := Backoff{}

	if got := b.Delay(4); got != 0 {
		t.Errorf("Delay with zero base = %v, want 0", got)
	}
}

func TestBackoff_DoublesWithinJitterBounds(t *testing.T) {
	b := Backoff{Base: 100 * time.Millisecond}

	for attempt := 1; attempt <= 5; attempt++ {
		raw := b.Base << uint(attempt)
		low := raw * 3 / 4
		high := raw * 5 / 4

		got := b.Delay(attempt)
		if got < low || got > high {
			t.Errorf("Delay(%d) = %v, want within [%v, %v]", attempt, got, low, high)
		}
	}
}

func TestBackoff_DefaultCeiling(t *testing.T) {
	b := Backoff{Base: time.Second}

	// Attempt 10 would be 1024s uncapped.
	got := b.Delay(10)
	low := DefaultBackoffCeiling * 3 / 4
	high := DefaultBackoffCeiling * 5 / 4
	if got < low || got > high {
		t.Errorf("Delay(10) = %v, want within [%v, %v]", got, low, high)
	}
}

func TestBackoff_CustomCeiling(t *testing.T) {
	b := Backoff{Base: time.Second, Ceiling: 2 * time.Second}

	got := b.Delay(5)
	if got < 1500*time.Millisecond || got > 2500*time.Millisecond {
		t.Errorf("Delay(5) = %v, want within [1.5s, 2.5s]", got)
	}
}

func TestBackoff_HugeAttemptStaysBounded(t *testing.T) {
	b := Backoff{Base: time.Second}

	for _, attempt := range []int{31, 32, 63, 64, 1000} {
		got := b.Delay(attempt)
		if got < 0 {
			t.Fatalf("Delay(%d) = %v, negative", attempt, got)
		}
		if got > DefaultBackoffCeiling*5/4 {
			t.Errorf("Delay(%d) = %v, want at most ceiling plus jitter", attempt, got)
		}
	}
}

func TestBackoff_TinyBaseDoesNotPanic(t *testing.T) {
	b := Backoff{Base: time.Nanosecond}

	got := b.Delay(1)
	if got < 0 || got > 3*time.Nanosecond {
		t.Errorf("Delay(1) = %v, want a few nanoseconds", got)
	}
}

func TestBackoff_JitterVaries(t *testing.T) {
	b := Backoff{Base: time.Second}

	first := b.Delay(2)
	for i := 0; i < 100; i++ {
		if b.Delay(2) != first {
			return
		}
	}
	t.Error("100 samples were identical, jitter should vary delays")
}
