package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/seqctl/internal/command"
	"github.com/roach88/seqctl/internal/commands"
	"github.com/roach88/seqctl/internal/engine"
	"github.com/roach88/seqctl/internal/scene"
	"github.com/roach88/seqctl/internal/script"
	"github.com/roach88/seqctl/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	FPS       float64
	MaxTicks  int
	Database  string
	Input     string
	Separator string

	// RunIDs allows overriding the run ID generator (for testing).
	// If nil, defaults to store.UUIDv7Generator.
	RunIDs store.RunIDGenerator
}

// RunSummary is the result of a finished run.
type RunSummary struct {
	RunID      string         `json:"run_id,omitempty"`
	Source     string         `json:"source"`
	Status     string         `json:"status"`
	FinalIndex int            `json:"final_index"`
	Count      int            `json:"count"`
	Ticks      int64          `json:"ticks"`
	Messages   []string       `json:"messages,omitempty"`
	Objects    []scene.Object `json:"objects,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// Text renders the summary for text output.
func (s RunSummary) Text() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s: %s at line %d/%d after %d ticks\n", s.Source, s.Status, s.FinalIndex, s.Count, s.Ticks)
	if s.RunID != "" {
		fmt.Fprintf(&buf, "run: %s\n", s.RunID)
	}
	for _, msg := range s.Messages {
		fmt.Fprintf(&buf, "message %q\n", msg)
	}
	for _, obj := range s.Objects {
		fmt.Fprintf(&buf, "object %s at (%g, %g, %g)\n", obj.Name, obj.Position.X, obj.Position.Y, obj.Position.Z)
	}
	if s.Error != "" {
		fmt.Fprintf(&buf, "error: %s\n", s.Error)
	}
	return buf.String()
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Run a script on a fixed-rate tick loop",
		Long: `Run a script, ticking the sequencer --fps times per second until the
script ends, a command faults, --max-ticks is reached or the process is
interrupted.

Click commands read presses from --input:
  none   never pressed
  stdin  one press per line read from standard input
  auto   always pressed

With --db every trace event is journaled to SQLite for 'seqctl trace'.

Example:
  seqctl run intro.txt
  seqctl run --fps 30 --input stdin --db runs.db intro.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(opts, args[0], cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.FPS, "fps", 60, "ticks per second")
	cmd.Flags().IntVar(&opts.MaxTicks, "max-ticks", 0, "stop after this many ticks (0 = no limit)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run journal (optional)")
	cmd.Flags().StringVar(&opts.Input, "input", InputNone, "click input source (none|stdin|auto)")
	cmd.Flags().StringVar(&opts.Separator, "separator", "", "override the script's field separator")

	return cmd
}

// fixedDelta reports the same tick length every frame.
type fixedDelta time.Duration

func (d fixedDelta) Delta() time.Duration { return time.Duration(d) }

func runScript(opts *RunOptions, path string, cmd *cobra.Command) error {
	if opts.FPS <= 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--fps must be positive, got %g", opts.FPS))
	}
	if err := isValidInput(opts.Input); err != nil {
		return WrapExitError(ExitCommandError, "invalid flag", err)
	}

	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	file, err := LoadScript(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load script", err)
	}
	list := file.List(opts.Separator)

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, stopping", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	var observers engine.MultiObserver
	var journal *store.Journal
	var st *store.Store
	runID := ""
	if opts.Database != "" {
		st, err = store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()

		gen := opts.RunIDs
		if gen == nil {
			gen = store.UUIDv7Generator{}
		}
		runID = gen.Generate()
		if err := st.BeginRun(ctx, store.Run{ID: runID, Source: path, LineCount: list.Count()}); err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		journal = store.NewJournal(ctx, st, runID)
		observers = append(observers, journal)
	}

	world := scene.New(logger)
	reg := command.NewRegistry()
	eng := engine.New(reg,
		engine.WithSeparator(list.Separator()),
		engine.WithLogger(logger),
		engine.WithObserver(observers),
	)

	interval := time.Duration(float64(time.Second) / opts.FPS)
	env := commands.Env{
		Sink:    world,
		Clock:   fixedDelta(interval),
		Input:   newInputSource(ctx, opts.Input, cmd.InOrStdin()),
		Control: eng,
		Logger:  logger,
	}
	if err := commands.Register(reg, env); err != nil {
		return WrapExitError(ExitCommandError, "failed to register commands", err)
	}

	logger.Info("running script", "source", path, "lines", list.Count(), "fps", opts.FPS)
	runErr := drive(ctx, eng, list, interval, opts.MaxTicks)

	status := store.RunEnded
	switch {
	case runErr != nil:
		status = store.RunFailed
	case eng.State() != engine.StateEnded:
		status = store.RunInterrupted
	}

	summary := RunSummary{
		RunID:      runID,
		Source:     path,
		Status:     string(status),
		FinalIndex: eng.CurrentIndex(),
		Count:      eng.Count(),
		Ticks:      eng.Frame(),
		Messages:   world.Messages(),
		Objects:    world.Objects(),
	}
	if runErr != nil {
		summary.Error = runErr.Error()
	}

	if st != nil {
		// The run context may already be cancelled by a signal.
		finishCtx := context.WithoutCancel(ctx)
		if err := st.FinishRun(finishCtx, runID, store.Outcome{FinalIndex: summary.FinalIndex, Status: status, Err: runErr}); err != nil {
			logger.Error("failed to finish run record", "run", runID, "error", err)
		}
		if err := journal.Err(); err != nil {
			logger.Error("journal write failed", "run", runID, "error", err)
		}
	}

	if err := formatter.Success(summary); err != nil {
		return err
	}
	if runErr != nil {
		return WrapExitError(ExitFailure, "script failed", runErr)
	}
	return nil
}

// drive starts the script and ticks it on a time.Ticker until it leaves
// StateRunning, ctx is done or maxTicks ticks have run.
func drive(ctx context.Context, eng *engine.Engine, list *script.List, interval time.Duration, maxTicks int) error {
	if err := eng.StartList(list); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for ticks := 0; eng.State() == engine.StateRunning; ticks++ {
		if maxTicks > 0 && ticks >= maxTicks {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := eng.Tick(); err != nil {
				return err
			}
		}
	}
	return nil
}

func newInputSource(ctx context.Context, mode string, stdin io.Reader) commands.Input {
	switch mode {
	case InputStdin:
		return newLineInput(ctx, stdin)
	case InputAuto:
		return constInput(true)
	default:
		return constInput(false)
	}
}
