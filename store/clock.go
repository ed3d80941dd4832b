package store

import "sync/atomic"

// Clock is a monotonic logical clock stamping commit records for ordering.
//
// Delivery-order guarantees are asserted against these sequence numbers,
// never against wall-clock timestamps.
//
// Thread-safety: safe for concurrent use (atomic operations), although
// dispatch is cooperative and commits normally happen on one call stack.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0; the first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock starting at a specific sequence number.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and advances the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without advancing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
