package agent

import (
	"testing"
	"time"
)

// TestRateLimiter_BlocksRapidRepeat tests that a caller is throttled after
// its burst is spent
func TestRateLimiter_BlocksRapidRepeat(t *testing.T) {
	rl := NewRateLimiter(time.Minute, 1, time.Hour)

	if !rl.Allow("caller-a") {
		t.Fatal("First request should be allowed")
	}
	if rl.Allow("caller-a") {
		t.Error("Second immediate request should be throttled")
	}
}

// TestRateLimiter_CallersAreIndependent tests that throttling one caller
// does not affect another
func TestRateLimiter_CallersAreIndependent(t *testing.T) {
	rl := NewRateLimiter(time.Minute, 1, time.Hour)

	if !rl.Allow("caller-a") {
		t.Fatal("caller-a first request should be allowed")
	}
	rl.Allow("caller-a") // spend the burst

	if !rl.Allow("caller-b") {
		t.Error("caller-b should have its own bucket")
	}
}

// TestRateLimiter_Burst tests that the configured burst admits back-to-back
// requests
func TestRateLimiter_Burst(t *testing.T) {
	rl := NewRateLimiter(time.Minute, 3, time.Hour)

	for i := 0; i < 3; i++ {
		if !rl.Allow("caller-a") {
			t.Fatalf("Request %d within burst should be allowed", i+1)
		}
	}
	if rl.Allow("caller-a") {
		t.Error("Request beyond burst should be throttled")
	}
}

// TestRateLimiter_RefillsOverTime tests that capacity returns after the
// interval elapses
func TestRateLimiter_RefillsOverTime(t *testing.T) {
	rl := NewRateLimiter(20*time.Millisecond, 1, time.Hour)

	if !rl.Allow("caller-a") {
		t.Fatal("First request should be allowed")
	}
	if rl.Allow("caller-a") {
		t.Fatal("Immediate retry should be throttled")
	}

	time.Sleep(30 * time.Millisecond)

	if !rl.Allow("caller-a") {
		t.Error("Request after the interval should be allowed")
	}
}

// TestRateLimiter_Defaults tests that non-positive settings fall back sanely
func TestRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiter(0, 0, 0)

	if !rl.Allow("caller-a") {
		t.Error("Defaults should still admit the first request")
	}
}
