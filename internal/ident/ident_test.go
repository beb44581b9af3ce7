package ident

import (
	"sync"
	"testing"
	"time"
)

func TestNextID_SameSecondCounter(t *testing.T) {
	fixed := time.Date(2026, 8, 28, 14, 22, 33, 0, time.UTC)
	g := NewWithClock(func() time.Time { return fixed })

	if got := g.NextID(); got != "20260828142233000" {
		t.Errorf("first id = %q", got)
	}
	if got := g.NextID(); got != "20260828142233001" {
		t.Errorf("second id = %q", got)
	}
	if got := g.NextID(); got != "20260828142233002" {
		t.Errorf("third id = %q", got)
	}
}

func TestNextID_CounterResetsOnNewSecond(t *testing.T) {
	now := time.Date(2026, 8, 28, 14, 22, 33, 0, time.UTC)
	g := NewWithClock(func() time.Time { return now })

	g.NextID()
	g.NextID()
	now = now.Add(time.Second)
	if got := g.NextID(); got != "20260828142234000" {
		t.Errorf("id after second change = %q", got)
	}
}

func TestNextID_Ordering(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	g := NewWithClock(func() time.Time {
		n++
		// Two ids per second.
		return now.Add(time.Duration(n/2) * time.Second)
	})

	prev := ""
	for i := 0; i < 20; i++ {
		id := g.NextID()
		if id <= prev {
			t.Fatalf("id %q not greater than %q", id, prev)
		}
		prev = id
	}
}

func TestNextID_CounterSaturation(t *testing.T) {
	// The 1001st id in one second must wait for the next second instead
	// of rolling the counter to a fourth digit, which would break the
	// fixed width and sort before "...999".
	t0 := time.Date(2026, 8, 28, 14, 22, 33, 0, time.UTC)
	calls := 0
	g := NewWithClock(func() time.Time {
		calls++
		if calls <= 1001 {
			return t0
		}
		return t0.Add(time.Second)
	})

	prev := ""
	var last string
	for i := 0; i < 1001; i++ {
		last = g.NextID()
		if len(last) != 17 {
			t.Fatalf("id %q is not 17 digits", last)
		}
		if last <= prev {
			t.Fatalf("id %q not greater than %q", last, prev)
		}
		prev = last
	}
	if last != "20260828142234000" {
		t.Errorf("saturated id = %q, want rollover to next second", last)
	}
}

func TestNextID_ConcurrentUnique(t *testing.T) {
	g := New()
	const n = 200

	var mu sync.Mutex
	seen := make(map[string]struct{}, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := g.NextID()
			mu.Lock()
			seen[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != n {
		t.Errorf("got %d unique ids, want %d", len(seen), n)
	}
}
