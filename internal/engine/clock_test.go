package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqs(events []TraceEvent) []int64 {
	out := make([]int64, len(events))
	for i, ev := range events {
		out[i] = ev.Seq
	}
	return out
}

func TestClock_FirstSeqIsOne(t *testing.T) {
	c := NewClock()
	assert.Equal(t, int64(0), c.Last())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(1), c.Last())
}

func TestClock_Resume(t *testing.T) {
	c := ResumeClock(41)
	assert.Equal(t, int64(41), c.Last(), "nothing issued yet")
	assert.Equal(t, int64(42), c.Next())
}

func TestClock_ConcurrentNextIsUnique(t *testing.T) {
	c := NewClock()
	const goroutines, calls = 8, 500

	var mu sync.Mutex
	seen := make(map[int64]bool)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < calls; j++ {
				n := c.Next()
				mu.Lock()
				seen[n] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, goroutines*calls)
	assert.Equal(t, int64(goroutines*calls), c.Last())
}

func TestEngine_SeqKeepsCountingAcrossRestart(t *testing.T) {
	var events []TraceEvent
	e, _ := setupEngine(t, nil, WithObserver(ObserverFunc(func(ev TraceEvent) {
		events = append(events, ev)
	})))

	require.NoError(t, e.Start("Rec|0|a"))
	require.NoError(t, e.Tick())
	firstRun := len(events)

	require.NoError(t, e.Restart())
	require.NoError(t, e.Tick())

	require.Greater(t, len(events), firstRun)
	for i, s := range seqs(events) {
		assert.Equal(t, int64(i+1), s, "seq is gapless over both runs")
	}
	assert.Equal(t, int64(0), events[firstRun].Frame, "frame restarts, seq does not")
}

func TestEngine_ResumeClockContinuesTrace(t *testing.T) {
	var events []TraceEvent
	e, _ := setupEngine(t, nil,
		WithClock(ResumeClock(100)),
		WithObserver(ObserverFunc(func(ev TraceEvent) { events = append(events, ev) })),
	)

	require.NoError(t, e.Start("Rec|0|a"))
	require.NoError(t, e.Tick())

	require.NotEmpty(t, events)
	assert.Equal(t, int64(101), events[0].Seq)
	assert.Equal(t, int64(100+len(events)), events[len(events)-1].Seq)
}

func TestEngine_SharedClockInterleaves(t *testing.T) {
	clock := NewClock()
	var events []TraceEvent
	obs := WithObserver(ObserverFunc(func(ev TraceEvent) { events = append(events, ev) }))

	a, _ := setupEngine(t, nil, WithClock(clock), obs)
	b, _ := setupEngine(t, nil, WithClock(clock), obs)

	require.NoError(t, a.Start("Rec|1|a"))
	require.NoError(t, b.Start("Rec|1|b"))
	require.NoError(t, a.Tick())
	require.NoError(t, b.Tick())

	for i, s := range seqs(events) {
		assert.Equal(t, int64(i+1), s)
	}
	assert.Equal(t, int64(len(events)), clock.Last())
}
