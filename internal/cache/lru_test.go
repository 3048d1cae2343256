package cache

import (
	"testing"
	"time"
)

func TestLRUEvictsOldest(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	if _, ok := c.Get("a"); !ok { // a becomes most recent
		t.Fatalf("expected a")
	}
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Fatalf("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("a: got %q %v", v, ok)
	}
	if c.Size() != 2 {
		t.Fatalf("size=%d", c.Size())
	}

	want := Stats{Hits: 2, Misses: 1, Evictions: 1}
	if got := c.Stats(); got != want {
		t.Fatalf("Stats() = %+v, want %+v", got, want)
	}
}

func TestLRUPeekDoesNotPromote(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	if v, ok := c.Peek("a"); !ok || v != "1" {
		t.Fatalf("Peek(a) = %q %v", v, ok)
	}
	c.Set("c", "3")

	if _, ok := c.Peek("a"); ok {
		t.Fatalf("a should have been evicted; Peek must not promote")
	}
	if s := c.Stats(); s.Hits != 0 || s.Misses != 0 {
		t.Fatalf("Peek counted in stats: %+v", s)
	}
}

func TestLRUExpiry(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	c := NewLRUCache[int](10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("x", 1)
	c.Set("y", 2)
	now = now.Add(2 * time.Minute)
	c.Set("z", 3)

	if _, ok := c.Get("x"); ok {
		t.Fatalf("x should be expired")
	}
	if n := c.CleanExpired(); n != 1 { // y; x was dropped by Get
		t.Fatalf("CleanExpired removed %d, want 1", n)
	}
	if v, ok := c.Get("z"); !ok || v != 3 {
		t.Fatalf("z: got %d %v", v, ok)
	}
	if s := c.Stats(); s.Expirations != 2 {
		t.Fatalf("Expirations = %d, want 2", s.Expirations)
	}
}

func TestLRUSetRefreshesTTL(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	c := NewLRUCache[string](4, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("k", "old")
	now = now.Add(50 * time.Second)
	c.Set("k", "new")
	now = now.Add(50 * time.Second)

	if v, ok := c.Get("k"); !ok || v != "new" {
		t.Fatalf("Get(k) = %q %v, want new", v, ok)
	}
}

func TestManagerSweepAndStop(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	c := NewLRUCache[string](10, time.Second)
	c.now = func() time.Time { return now }
	c.Set("k", "v")
	now = now.Add(time.Hour)

	m := NewManager(nil)
	m.Register(c)
	if n := m.Sweep(); n != 1 {
		t.Fatalf("Sweep removed %d, want 1", n)
	}

	m.StartCleanup(time.Hour)
	m.Stop()
	m.Stop() // second stop is a no-op
}
