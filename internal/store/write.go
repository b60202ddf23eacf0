package store

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/seqctl/internal/engine"
)

// BeginRun inserts a run record with status running.
// Uses ON CONFLICT(id) DO NOTHING for idempotency.
func (s *Store) BeginRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		return fmt.Errorf("begin run: empty id")
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, source, line_count, started_at, status)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Source,
		run.LineCount,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		string(RunRunning),
	)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// FinishRun records the outcome of a run.
// Returns an error if the run does not exist.
func (s *Store) FinishRun(ctx context.Context, runID string, out Outcome) error {
	if out.FinishedAt.IsZero() {
		out.FinishedAt = time.Now()
	}
	var errText string
	if out.Err != nil {
		errText = out.Err.Error()
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, final_index = ?, status = ?, error = ?
		WHERE id = ?
	`,
		out.FinishedAt.UTC().Format(time.RFC3339Nano),
		out.FinalIndex,
		string(out.Status),
		errText,
		runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run: unknown run %q", runID)
	}
	return nil
}

// WriteEvent appends one trace event to a run.
// Uses ON CONFLICT(run_id, seq) DO NOTHING - rewriting a seq is a no-op.
//
// Note: The run referenced by runID must exist (foreign key constraint).
func (s *Store) WriteEvent(ctx context.Context, runID string, ev engine.TraceEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (run_id, seq, frame, kind, line_index, command, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`,
		runID,
		ev.Seq,
		ev.Frame,
		string(ev.Kind),
		ev.Index,
		ev.Command,
		ev.Detail,
	)
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}
