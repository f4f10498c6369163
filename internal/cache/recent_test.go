package cache

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRecentSet_ClaimForget(t *testing.T) {
	s := NewRecentSet(10, time.Minute)

	if !s.Claim("a") {
		t.Fatal("first claim of a should succeed")
	}
	if s.Claim("a") {
		t.Fatal("second claim of a should fail")
	}
	s.Forget("a")
	if !s.Claim("a") {
		t.Fatal("claim after Forget should succeed")
	}
}

func TestRecentSet_Eviction(t *testing.T) {
	s := NewRecentSet(2, time.Minute)
	s.Claim("a")
	s.Claim("b")
	s.Claim("c")

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if !s.Claim("a") {
		t.Error("a should have been evicted")
	}
	if s.Claim("c") {
		t.Error("c should remain")
	}
}

func TestRecentSet_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewRecentSet(10, time.Minute)
	s.now = func() time.Time { return now }

	s.Claim("old")
	now = now.Add(30 * time.Second)
	s.Claim("new")
	now = now.Add(45 * time.Second)

	if s.Claim("new") {
		t.Error("new should still be held")
	}
	if removed := s.Prune(); removed != 1 {
		t.Errorf("Prune() = %d, want 1", removed)
	}
	if !s.Claim("old") {
		t.Error("old should be claimable once expired")
	}

	now = now.Add(time.Hour)
	if removed := s.Prune(); removed != 2 {
		t.Errorf("Prune() = %d, want 2", removed)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestRecentSet_ConcurrentClaims(t *testing.T) {
	s := NewRecentSet(10, time.Minute)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Claim("snap") {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Errorf("winners = %d, want 1", wins.Load())
	}
}
