package ratelimit

import (
	"fmt"
	"testing"
	"time"
)

func TestAllow_BudgetExhaustedWithinWindow(t *testing.T) {
	limiter := New(5, time.Minute, 500)

	for i := 0; i < 5; i++ {
		if !limiter.Allow("user-1") {
			t.Fatalf("expected call %d to be allowed", i+1)
		}
	}
	if limiter.Allow("user-1") {
		t.Fatal("expected sixth call to be denied")
	}
}

func TestAllow_IdentitiesAreIndependent(t *testing.T) {
	limiter := New(1, time.Minute, 500)

	if !limiter.Allow("user-1") {
		t.Fatal("expected first call for user-1 to be allowed")
	}
	if limiter.Allow("user-1") {
		t.Fatal("expected second call for user-1 to be denied")
	}
	if !limiter.Allow("user-2") {
		t.Fatal("expected user-2 to have its own budget")
	}
}

func TestAllow_WindowExpiryResetsCounter(t *testing.T) {
	limiter := New(2, time.Minute, 500)
	current := time.Now()
	limiter.now = func() time.Time { return current }

	limiter.Allow("user-1")
	limiter.Allow("user-1")
	if limiter.Allow("user-1") {
		t.Fatal("expected third call to be denied inside the window")
	}

	current = current.Add(time.Minute + time.Second)
	if !limiter.Allow("user-1") {
		t.Fatal("expected a fresh window after expiry")
	}
	if !limiter.Allow("user-1") {
		t.Fatal("expected second call of the fresh window to be allowed")
	}
	if limiter.Allow("user-1") {
		t.Fatal("expected third call of the fresh window to be denied")
	}
}

func TestAllow_DeniedCallsStillCountAgainstTheWindow(t *testing.T) {
	limiter := New(1, time.Minute, 500)
	current := time.Now()
	limiter.now = func() time.Time { return current }

	limiter.Allow("user-1")
	// Denied attempts keep the window occupied.
	for i := 0; i < 3; i++ {
		if limiter.Allow("user-1") {
			t.Fatal("expected denial while the window is active")
		}
	}

	current = current.Add(2 * time.Minute)
	if !limiter.Allow("user-1") {
		t.Fatal("expected allowance once the window lapsed")
	}
}

func TestAllow_LeastRecentlyUsedIdentityEvicted(t *testing.T) {
	limiter := New(1, time.Minute, 3)

	limiter.Allow("a")
	limiter.Allow("b")
	limiter.Allow("c")
	if limiter.Len() != 3 {
		t.Fatalf("expected 3 tracked identities, got %d", limiter.Len())
	}

	// Touch a and b so c becomes the least recently used.
	limiter.Allow("a")
	limiter.Allow("b")

	limiter.Allow("d")
	if limiter.Len() != 3 {
		t.Fatalf("expected bound of 3 to hold, got %d", limiter.Len())
	}

	// c was evicted, so it starts a fresh window and is allowed again.
	if !limiter.Allow("c") {
		t.Fatal("expected evicted identity to start fresh")
	}
}

func TestAllow_ExpiredEntriesSweptBeforeEviction(t *testing.T) {
	limiter := New(1, time.Minute, 2)
	current := time.Now()
	limiter.now = func() time.Time { return current }

	limiter.Allow("a")
	limiter.Allow("b")

	current = current.Add(2 * time.Minute)
	limiter.Allow("c")

	// Both expired entries were dropped when room was made for c.
	if limiter.Len() != 1 {
		t.Fatalf("expected only the fresh identity tracked, got %d", limiter.Len())
	}
}

func TestAllow_TrackedIdentitiesNeverExceedBound(t *testing.T) {
	limiter := New(5, time.Minute, 10)

	for i := 0; i < 100; i++ {
		limiter.Allow(fmt.Sprintf("user-%d", i))
	}
	if limiter.Len() > 10 {
		t.Fatalf("expected at most 10 tracked identities, got %d", limiter.Len())
	}
}
