package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/seqctl/internal/engine"
	"github.com/roach88/seqctl/internal/harness"
	"github.com/roach88/seqctl/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunID    string   // optional - defaults to the latest run
	Kinds    []string // optional - filter to these event kinds
	List     bool     // list runs instead of tracing one
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	Run    store.Run           `json:"run"`
	Events []engine.TraceEvent `json:"events"`
	Stats  TraceStats          `json:"stats"`
}

// TraceStats holds summary statistics for the trace.
type TraceStats struct {
	TotalEvents int `json:"total_events"`
	Starts      int `json:"starts"`
	Updates     int `json:"updates"`
	Frames      int `json:"frames"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the journaled trace of a run",
		Long: `Show the trace of a run recorded with 'seqctl run --db'.

The output includes:
- Run: source, outcome and final line index
- Events: every lifecycle transition in seq order
- Stats: summary counts

Examples:
  seqctl trace --db runs.db
  seqctl trace --db runs.db --run 0190f2c4-... --kind start,end
  seqctl trace --db runs.db --list
  seqctl trace --db runs.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run to trace (default: latest)")
	cmd.Flags().StringSliceVar(&opts.Kinds, "kind", nil, "filter to event kinds (start,update,dispose,end,fault)")
	cmd.Flags().BoolVar(&opts.List, "list", false, "list recorded runs")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	kinds, err := parseKinds(opts.Kinds)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid flag", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if opts.List {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		if opts.Format == "json" {
			return outputTraceJSON(cmd, runs)
		}
		return outputRunsText(cmd.OutOrStdout(), runs)
	}

	var run store.Run
	if opts.RunID == "" {
		run, err = st.LatestRun(ctx)
	} else {
		run, err = st.ReadRun(ctx, opts.RunID)
	}
	if errors.Is(err, sql.ErrNoRows) {
		msg := "no runs recorded"
		if opts.RunID != "" {
			msg = fmt.Sprintf("run not found: %s", opts.RunID)
		}
		return NewExitError(ExitCommandError, msg)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	events, err := st.ReadEvents(ctx, run.ID, kinds...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read events", err)
	}

	result := TraceResult{
		Run:    run,
		Events: events,
		Stats:  buildStats(events),
	}

	if opts.Format == "json" {
		return outputTraceJSON(cmd, result)
	}
	return outputTraceText(cmd.OutOrStdout(), result)
}

func parseKinds(raw []string) ([]engine.EventKind, error) {
	var kinds []engine.EventKind
	for _, k := range raw {
		switch kind := engine.EventKind(strings.TrimSpace(k)); kind {
		case engine.EventStart, engine.EventUpdate, engine.EventDispose, engine.EventEnd, engine.EventFault:
			kinds = append(kinds, kind)
		default:
			return nil, fmt.Errorf("unknown event kind %q", k)
		}
	}
	return kinds, nil
}

func buildStats(events []engine.TraceEvent) TraceStats {
	stats := TraceStats{TotalEvents: len(events)}
	frames := make(map[int64]bool)
	for _, ev := range events {
		switch ev.Kind {
		case engine.EventStart:
			stats.Starts++
		case engine.EventUpdate:
			stats.Updates++
		}
		frames[ev.Frame] = true
	}
	stats.Frames = len(frames)
	return stats
}

// outputTraceJSON outputs data wrapped in the standard response, indented.
func outputTraceJSON(cmd *cobra.Command, data any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(CLIResponse{Status: "ok", Data: data})
}

// outputTraceText outputs the trace result as text.
func outputTraceText(w io.Writer, result TraceResult) error {
	run := result.Run
	fmt.Fprintf(w, "Trace for Run: %s\n", run.ID)
	fmt.Fprintf(w, "Source: %s (%d lines)\n", run.Source, run.LineCount)
	fmt.Fprintf(w, "Status: %s at line %d\n", run.Status, run.FinalIndex)
	if run.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", run.Error)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Events ===")
	if len(result.Events) == 0 {
		fmt.Fprintln(w, "  (no events)")
	}
	for _, ev := range result.Events {
		fmt.Fprintf(w, "  %s\n", harness.FormatEvent(ev))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Stats ===")
	fmt.Fprintf(w, "  Total Events: %d\n", result.Stats.TotalEvents)
	fmt.Fprintf(w, "  Starts:       %d\n", result.Stats.Starts)
	fmt.Fprintf(w, "  Updates:      %d\n", result.Stats.Updates)
	fmt.Fprintf(w, "  Frames:       %d\n", result.Stats.Frames)

	return nil
}

func outputRunsText(w io.Writer, runs []store.Run) error {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(w, "%s  %-11s line %d/%d  %s\n", run.ID, run.Status, run.FinalIndex, run.LineCount, run.Source)
	}
	return nil
}
