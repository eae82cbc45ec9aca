package engine

import "sync/atomic"

// Clock is the pipeline's logical clock. Every applied event gets the next
// strictly increasing sequence number, which is persisted with the cursor
// and stamped on entity rows, so a resumed run continues the same sequence
// instead of restarting it.
type Clock struct {
	seq atomic.Int64
}

// NewClock returns a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt returns a clock resuming from start, the persisted cursor's
// sequence number.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next increments the clock and returns the new value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the clock's position without advancing it.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
