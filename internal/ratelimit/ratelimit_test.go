package ratelimit

import (
	"testing"
	"time"
)

func TestAllowSpendsTokensPerKey(t *testing.T) {
	l := New(2, time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("first two requests should be allowed")
	}
	if l.Allow("a") {
		t.Error("third request in the window should be denied")
	}
	if !l.Allow("b") {
		t.Error("other keys have their own bucket")
	}

	now = now.Add(time.Minute)
	if !l.Allow("a") {
		t.Error("bucket should refill after the window")
	}
}

func TestCleanupRemovesIdleKeys(t *testing.T) {
	l := New(1, time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("old")
	now = now.Add(90 * time.Second)
	l.Allow("fresh")
	now = now.Add(45 * time.Second)

	if removed := l.Cleanup(); removed != 1 {
		t.Fatalf("Cleanup removed %d keys, want 1", removed)
	}
	if _, ok := l.visitors["fresh"]; !ok {
		t.Error("fresh key was removed")
	}
}
