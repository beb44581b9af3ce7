// Package ident generates timestamp-based note identifiers.
//
// IDs are second-resolution timestamps (YYYYMMDDHHMMSS) followed by a
// three-digit counter, so default lexicographic ordering approximates
// creation order and rapid successive calls never collide.
package ident

import (
	"fmt"
	"sync"
	"time"
)

const (
	timestampLayout = "20060102150405"
	maxCounter      = 999
)

// Generator produces monotonically non-decreasing, collision-free IDs.
// The zero value is not usable; construct with New. Safe for concurrent use.
type Generator struct {
	mu      sync.Mutex
	now     func() time.Time
	last    string
	counter int
}

// New creates a Generator backed by the wall clock.
func New() *Generator {
	return &Generator{now: time.Now}
}

// NewWithClock creates a Generator with an injectable clock for tests.
func NewWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// NextID returns the next identifier. Calls within the same clock second
// increment the counter; a new second resets it to zero. When the counter
// saturates (1000 ids in one second) the generator waits for the clock to
// move on, keeping ids fixed-width and lexicographically ordered.
func (g *Generator) NextID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ts := g.now().Format(timestampLayout)
	if ts == g.last {
		g.counter++
	} else {
		g.last = ts
		g.counter = 0
	}
	for g.counter > maxCounter {
		if ts = g.now().Format(timestampLayout); ts != g.last {
			g.last = ts
			g.counter = 0
		}
	}
	return fmt.Sprintf("%s%03d", ts, g.counter)
}
