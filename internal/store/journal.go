package store

import (
	"context"
	"sync"

	"github.com/roach88/seqctl/internal/engine"
)

// Journal is an engine.Observer that appends every trace event to a run.
//
// Observe cannot return an error, so the first write failure is kept and
// later events are dropped. Check Err after the run.
type Journal struct {
	ctx   context.Context
	store *Store
	runID string

	mu  sync.Mutex
	err error
	n   int
}

// NewJournal creates an observer writing to runID. The run must already
// exist (see BeginRun).
func NewJournal(ctx context.Context, s *Store, runID string) *Journal {
	return &Journal{ctx: ctx, store: s, runID: runID}
}

// Observe writes ev to the store.
func (j *Journal) Observe(ev engine.TraceEvent) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return
	}
	if err := j.store.WriteEvent(j.ctx, j.runID, ev); err != nil {
		j.err = err
		return
	}
	j.n++
}

// Err returns the first write error, if any.
func (j *Journal) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Written returns the number of events stored.
func (j *Journal) Written() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.n
}

// RunID returns the run this journal writes to.
func (j *Journal) RunID() string {
	return j.runID
}
