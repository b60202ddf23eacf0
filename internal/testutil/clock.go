package testutil

import (
	"sync"
	"time"
)

// StepClock is a deterministic frame clock for tests.
//
// Every tick lasts exactly Step, so time-based commands finish after a
// predictable number of ticks. It satisfies commands.Clock.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type StepClock struct {
	mu      sync.Mutex
	step    time.Duration
	frames  int64
	elapsed time.Duration
}

// NewStepClock creates a clock whose ticks each last step.
func NewStepClock(step time.Duration) *StepClock {
	return &StepClock{step: step}
}

// Delta returns the duration of the current tick.
func (c *StepClock) Delta() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Advance records one elapsed tick and returns the new frame number.
// The first call returns 1.
func (c *StepClock) Advance() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames++
	c.elapsed += c.step
	return c.frames
}

// Frames returns the number of ticks advanced.
func (c *StepClock) Frames() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// Elapsed returns the total simulated time.
func (c *StepClock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

// SetStep changes the duration of subsequent ticks.
func (c *StepClock) SetStep(step time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = step
}

// Reset rewinds the clock to frame 0.
func (c *StepClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = 0
	c.elapsed = 0
}
