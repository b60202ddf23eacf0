package store

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/seqctl/internal/command"
	"github.com/roach88/seqctl/internal/engine"
	"github.com/roach88/seqctl/internal/testutil"
)

var t0 = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func TestRun_BeginAndFinish(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.BeginRun(ctx, Run{ID: "run-1", Source: "intro.txt", LineCount: 4, StartedAt: t0}))

	run, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, RunRunning, run.Status)
	assert.Equal(t, "intro.txt", run.Source)
	assert.Equal(t, 4, run.LineCount)
	assert.True(t, run.StartedAt.Equal(t0))
	assert.Nil(t, run.FinishedAt)

	require.NoError(t, s.FinishRun(ctx, "run-1", Outcome{
		FinalIndex: 4,
		Status:     RunEnded,
		FinishedAt: t0.Add(time.Second),
	}))

	run, err = s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, RunEnded, run.Status)
	assert.Equal(t, 4, run.FinalIndex)
	require.NotNil(t, run.FinishedAt)
	assert.True(t, run.FinishedAt.Equal(t0.Add(time.Second)))
	assert.Empty(t, run.Error)
}

func TestRun_BeginIsIdempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.BeginRun(ctx, Run{ID: "run-1", Source: "a", StartedAt: t0}))
	require.NoError(t, s.BeginRun(ctx, Run{ID: "run-1", Source: "b", StartedAt: t0}))

	run, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "a", run.Source)
}

func TestRun_BeginRequiresID(t *testing.T) {
	s := createTestStore(t)
	assert.Error(t, s.BeginRun(context.Background(), Run{Source: "a"}))
}

func TestRun_FinishRecordsError(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.BeginRun(ctx, Run{ID: "run-1", StartedAt: t0}))

	require.NoError(t, s.FinishRun(ctx, "run-1", Outcome{
		FinalIndex: 2,
		Status:     RunFailed,
		Err:        errors.New("boom"),
	}))

	run, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, RunFailed, run.Status)
	assert.Equal(t, "boom", run.Error)
}

func TestRun_FinishUnknown(t *testing.T) {
	s := createTestStore(t)
	err := s.FinishRun(context.Background(), "missing", Outcome{Status: RunEnded})
	assert.Error(t, err)
}

func TestRun_ReadMissing(t *testing.T) {
	s := createTestStore(t)
	_, err := s.ReadRun(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	_, err = s.LatestRun(context.Background())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	gen := UUIDv7Generator{}
	var ids []string
	for i := 0; i < 3; i++ {
		id := gen.Generate()
		ids = append(ids, id)
		require.NoError(t, s.BeginRun(ctx, Run{ID: id, StartedAt: t0}))
		time.Sleep(2 * time.Millisecond)
	}

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[0], runs[2].ID)

	latest, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, ids[2], latest.ID)
}

func TestListRuns_Empty(t *testing.T) {
	s := createTestStore(t)
	runs, err := s.ListRuns(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestEvents_WriteAndRead(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.BeginRun(ctx, Run{ID: "run-1", StartedAt: t0}))

	written := []engine.TraceEvent{
		{Seq: 2, Frame: 1, Kind: engine.EventUpdate, Index: 0, Command: "Wait"},
		{Seq: 1, Frame: 0, Kind: engine.EventStart, Index: 0, Command: "Wait"},
		{Seq: 3, Frame: 1, Kind: engine.EventEnd, Index: 1, Detail: "done"},
	}
	for _, ev := range written {
		require.NoError(t, s.WriteEvent(ctx, "run-1", ev))
	}
	// Duplicate seq is ignored
	require.NoError(t, s.WriteEvent(ctx, "run-1", engine.TraceEvent{Seq: 1, Kind: engine.EventFault}))

	events, err := s.ReadEvents(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, written[1], events[0])
	assert.Equal(t, written[0], events[1])
	assert.Equal(t, written[2], events[2])

	starts, err := s.ReadEvents(ctx, "run-1", engine.EventStart, engine.EventEnd)
	require.NoError(t, err)
	require.Len(t, starts, 2)
	assert.Equal(t, engine.EventStart, starts[0].Kind)
	assert.Equal(t, engine.EventEnd, starts[1].Kind)
}

func TestEvents_RequireRun(t *testing.T) {
	s := createTestStore(t)
	err := s.WriteEvent(context.Background(), "missing", engine.TraceEvent{Seq: 1, Kind: engine.EventStart})
	assert.Error(t, err, "foreign key should reject events for unknown runs")
}

func TestEvents_ReadUnknownRunIsEmpty(t *testing.T) {
	s := createTestStore(t)
	events, err := s.ReadEvents(context.Background(), "missing")
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestJournal_RecordsEngineTrace(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	runID := testutil.NewFixedRunID("").Generate()
	require.NoError(t, s.BeginRun(ctx, Run{ID: runID, Source: "inline", LineCount: 2, StartedAt: t0}))

	journal := NewJournal(ctx, s, runID)
	var live []engine.TraceEvent

	reg := command.NewRegistry()
	calls := &testutil.CallLog{}
	reg.MustRegister("Rec", testutil.RecorderFactory(calls))

	eng := engine.New(reg,
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		engine.WithObserver(engine.MultiObserver{
			journal,
			engine.ObserverFunc(func(ev engine.TraceEvent) { live = append(live, ev) }),
		}),
	)
	require.NoError(t, eng.Start("Rec|1|a", "Rec|0|b"))
	for eng.State() == engine.StateRunning {
		require.NoError(t, eng.Tick())
	}

	require.NoError(t, journal.Err())
	assert.Equal(t, len(live), journal.Written())
	assert.Equal(t, runID, journal.RunID())

	stored, err := s.ReadEvents(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, live, stored)

	require.NoError(t, s.FinishRun(ctx, runID, Outcome{FinalIndex: eng.CurrentIndex(), Status: RunEnded}))
	run, err := s.ReadRun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, 2, run.FinalIndex)
}

func TestJournal_KeepsFirstError(t *testing.T) {
	s := createTestStore(t)
	journal := NewJournal(context.Background(), s, "missing")

	journal.Observe(engine.TraceEvent{Seq: 1, Kind: engine.EventStart})
	first := journal.Err()
	require.Error(t, first)

	journal.Observe(engine.TraceEvent{Seq: 2, Kind: engine.EventStart})
	assert.Equal(t, first, journal.Err())
	assert.Equal(t, 0, journal.Written())
}

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}
	a, b := gen.Generate(), gen.Generate()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
