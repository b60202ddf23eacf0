package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/seqctl/internal/engine"
	"github.com/roach88/seqctl/internal/store"
	"github.com/roach88/seqctl/internal/testutil"
)

func TestRunInstantScript(t *testing.T) {
	path := writeFile(t, t.TempDir(), "hello.txt", "Log|hello\nCreate|cube|1|2|3\nLog|bye\n")

	out, _, err := execute(NewRunCommand(&RootOptions{Format: "text"}), path)
	require.NoError(t, err)
	assert.Contains(t, out, "ended at line 3/3")
	assert.Contains(t, out, `message "hello"`)
	assert.Contains(t, out, "object cube at (1, 2, 3)")
}

func TestRunTimedScriptJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "move.yaml", `
lines:
  - Create|cube|0|0|0
  - Move|3|0|0|0.005
  - Log|arrived
`)

	out, _, err := execute(NewRunCommand(&RootOptions{Format: "json"}), "--fps", "1000", path)
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   RunSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, string(store.RunEnded), resp.Data.Status)
	assert.Equal(t, 3, resp.Data.FinalIndex)
	assert.Equal(t, []string{"arrived"}, resp.Data.Messages)
	require.Len(t, resp.Data.Objects, 1)
	assert.InDelta(t, 3.0, resp.Data.Objects[0].Position.X, 1e-9)
	assert.GreaterOrEqual(t, resp.Data.Ticks, int64(5))
}

func TestRunAutoInputClicks(t *testing.T) {
	path := writeFile(t, t.TempDir(), "click.txt", "Click\nLog|clicked\n")

	out, _, err := execute(NewRunCommand(&RootOptions{Format: "text"}), "--fps", "1000", "--input", InputAuto, path)
	require.NoError(t, err)
	assert.Contains(t, out, "ended at line 2/2")
	assert.Contains(t, out, `message "clicked"`)
}

func TestRunMaxTicksInterrupts(t *testing.T) {
	path := writeFile(t, t.TempDir(), "click.txt", "Click\nLog|never\n")

	out, _, err := execute(NewRunCommand(&RootOptions{Format: "text"}), "--fps", "1000", "--max-ticks", "3", path)
	require.NoError(t, err)
	assert.Contains(t, out, "interrupted at line 0/2 after 3 ticks")
	assert.NotContains(t, out, "never")
}

func TestRunContextCancelInterrupts(t *testing.T) {
	path := writeFile(t, t.TempDir(), "click.txt", "Click\n")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetContext(ctx)
	out, _, err := execute(cmd, "--fps", "100", path)
	require.NoError(t, err)
	assert.Contains(t, out, "interrupted")
}

func TestRunFaultExitsWithFailure(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.txt", "Log|before\nTeleport|1|2|3\n")

	out, _, err := execute(NewRunCommand(&RootOptions{Format: "text"}), path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, engine.HasCode(err, engine.ErrCodeUnknownCommand))
	assert.Contains(t, out, "failed at line 1/2")
	assert.Contains(t, out, "UNKNOWN_COMMAND")
}

func TestRunCommandErrors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ok.txt", "Log|hi\n")

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"/nonexistent/script.txt"}},
		{"zero fps", []string{"--fps", "0", path}},
		{"bad input", []string{"--input", "mouse", path}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(NewRunCommand(&RootOptions{Format: "text"}), tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestRunSeparatorOverride(t *testing.T) {
	path := writeFile(t, t.TempDir(), "semi.txt", "Log;semi\n")

	out, _, err := execute(NewRunCommand(&RootOptions{Format: "text"}), "--separator", ";", path)
	require.NoError(t, err)
	assert.Contains(t, out, `message "semi"`)
}

func TestRunJournalsToDatabase(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "runs.db")
	path := writeFile(t, dir, "wait.txt", "Log|hi\nWait|0.003\nLog|bye\n")

	cmd := newRunCommand(&RunOptions{
		RootOptions: &RootOptions{Format: "text"},
		RunIDs:      testutil.NewFixedRunID("run-1"),
	})

	out, _, err := execute(cmd, "--fps", "1000", "--db", dbPath, path)
	require.NoError(t, err)
	assert.Contains(t, out, "run: run-1")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	run, err := st.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, store.RunEnded, run.Status)
	assert.Equal(t, 3, run.FinalIndex)
	assert.Equal(t, 3, run.LineCount)
	assert.Equal(t, path, run.Source)
	require.NotNil(t, run.FinishedAt)

	events, err := st.ReadEvents(ctx, "run-1", engine.EventStart, engine.EventEnd)
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, "Log", events[0].Command)
	assert.Equal(t, "Wait", events[1].Command)
	assert.Equal(t, "Log", events[2].Command)
	assert.Equal(t, engine.EventEnd, events[3].Kind)
	assert.Equal(t, 3, events[3].Index)
}

func TestRunJournalsFailure(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "runs.db")
	path := writeFile(t, dir, "bad.txt", "Wait|soon\n")

	cmd := newRunCommand(&RunOptions{
		RootOptions: &RootOptions{Format: "text"},
		RunIDs:      testutil.NewFixedRunID("run-bad"),
	})

	_, _, err := execute(cmd, "--db", dbPath, path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	run, err := st.ReadRun(context.Background(), "run-bad")
	require.NoError(t, err)
	assert.Equal(t, store.RunFailed, run.Status)
	assert.Contains(t, run.Error, "DECODE_FAILED")

	faults, err := st.ReadEvents(context.Background(), "run-bad", engine.EventFault)
	require.NoError(t, err)
	require.Len(t, faults, 1)
	assert.Equal(t, 0, faults[0].Index)
}

func TestFixedDelta(t *testing.T) {
	assert.Equal(t, 5*time.Millisecond, fixedDelta(5*time.Millisecond).Delta())
}
