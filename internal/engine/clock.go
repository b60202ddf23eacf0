package engine

import "sync/atomic"

// Clock hands out the seq numbers stamped on trace events.
//
// Seq is a logical time: it orders events without reference to frames or
// wall time. An engine keeps its clock across Restart, so every event of a
// session, over any number of runs, has a distinct seq. Engines that share
// one Clock produce a single interleaved order.
type Clock struct {
	last atomic.Int64
}

// NewClock returns a clock whose first seq is 1.
func NewClock() *Clock {
	return &Clock{}
}

// ResumeClock returns a clock whose first seq is after+1, for continuing a
// trace that already holds events up to after.
func ResumeClock(after int64) *Clock {
	c := &Clock{}
	c.last.Store(after)
	return c
}

// Next issues the next seq.
func (c *Clock) Next() int64 {
	return c.last.Add(1)
}

// Last returns the most recently issued seq, or the resume point if none
// has been issued yet.
func (c *Clock) Last() int64 {
	return c.last.Load()
}
