package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"

	"github.com/roach88/seqctl/internal/command"
	"github.com/roach88/seqctl/internal/commands"
	"github.com/roach88/seqctl/internal/engine"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Separator string
}

// ValidationIssue describes one line that would fault at run time.
type ValidationIssue struct {
	Index   int    `json:"index"`
	Line    string `json:"line,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`

	// Suggestion is the closest registered name for an unknown command.
	Suggestion string `json:"suggestion,omitempty"`
}

// ValidateResult is the outcome of validating one script.
type ValidateResult struct {
	Source string            `json:"source"`
	Lines  int               `json:"lines"`
	Valid  bool              `json:"valid"`
	Issues []ValidationIssue `json:"issues,omitempty"`
}

// Text renders the result for text output.
func (r ValidateResult) Text() string {
	var buf strings.Builder
	if r.Valid {
		fmt.Fprintf(&buf, "✓ %s: %d lines OK\n", r.Source, r.Lines)
		return buf.String()
	}
	fmt.Fprintf(&buf, "✗ %s: %d of %d lines invalid\n", r.Source, len(r.Issues), r.Lines)
	for _, issue := range r.Issues {
		fmt.Fprintf(&buf, "  line %d %q: [%s] %s", issue.Index, issue.Line, issue.Code, issue.Message)
		if issue.Suggestion != "" {
			fmt.Fprintf(&buf, " (did you mean %q?)", issue.Suggestion)
		}
		buf.WriteString("\n")
	}
	return buf.String()
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <script>",
		Short: "Check that every line names a known command with valid arguments",
		Long: `Build every line of a script without running it.

Reports unknown command names and malformed arguments with their line
index, so they surface before the tick that would reach them.

Exit codes:
  0 - Script is valid
  1 - One or more lines are invalid
  2 - Command error (file not found, parse error, etc.)

Examples:
  seqctl validate intro.txt
  seqctl validate intro.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Separator, "separator", "", "override the script's field separator")

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	file, err := LoadScript(path)
	if err != nil {
		code := ErrCodeGeneric
		var le *LoadError
		if errors.As(err, &le) {
			code = le.Code
		}
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load script", err)
	}
	list := file.List(opts.Separator)

	// Factories only capture the environment, so a discard logger and an
	// unstarted engine are enough to build every line.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := command.NewRegistry()
	eng := engine.New(reg, engine.WithLogger(logger))
	if err := commands.Register(reg, commands.Env{Clock: fixedDelta(0), Control: eng, Logger: logger}); err != nil {
		return WrapExitError(ExitCommandError, "failed to register commands", err)
	}

	result := ValidateResult{
		Source: path,
		Lines:  list.Count(),
		Valid:  true,
	}
	for _, err := range engine.Validate(reg, list) {
		result.Valid = false
		issue := toIssue(err)
		if issue.Code == string(engine.ErrCodeUnknownCommand) {
			issue.Suggestion = closestCommand(list.Split(issue.Line)[0], reg.Names())
		}
		result.Issues = append(result.Issues, issue)
	}

	if err := formatter.Success(result); err != nil {
		return err
	}
	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d invalid lines", len(result.Issues)))
	}
	return nil
}

func toIssue(err error) ValidationIssue {
	var re *engine.RuntimeError
	if errors.As(err, &re) {
		msg := re.Message
		if re.Err != nil {
			msg = re.Err.Error()
		}
		return ValidationIssue{Index: re.Index, Line: re.Line, Code: string(re.Code), Message: msg}
	}
	return ValidationIssue{Index: -1, Code: ErrCodeGeneric, Message: err.Error()}
}

// closestCommand returns the best fuzzy match for name among names, or "".
func closestCommand(name string, names []string) string {
	if name == "" {
		return ""
	}
	ranks := fuzzy.RankFindFold(name, names)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}
