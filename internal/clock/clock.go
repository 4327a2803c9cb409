// Package clock provides an injectable time source so token expiry, ledger
// timestamps, and beacon scheduling stay deterministic under test.
package clock

import "time"

// Clock is the time source used throughout the SDK.
type Clock interface {
	Now() time.Time
}

// Real uses the system clock.
type Real struct{}

// Now returns the current system time.
func (Real) Now() time.Time { return time.Now() }

// Mock is a hand-driven clock for tests.
type Mock struct {
	current time.Time
}

// NewMock returns a Mock pinned to t, or to a fixed epoch when t is zero.
func NewMock(t time.Time) *Mock {
	if t.IsZero() {
		t = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return &Mock{current: t}
}

// Now returns the mock's current time.
func (m *Mock) Now() time.Time { return m.current }

// Set pins the mock to an absolute time.
func (m *Mock) Set(t time.Time) { m.current = t }

// Advance moves the mock forward by d.
func (m *Mock) Advance(d time.Duration) { m.current = m.current.Add(d) }

// Since reports the elapsed time between t and the clock's now. It is the
// Clock-aware replacement for time.Since.
func Since(c Clock, t time.Time) time.Duration { return c.Now().Sub(t) }
