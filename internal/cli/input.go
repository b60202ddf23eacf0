package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync/atomic"
)

// Input modes for the run command.
const (
	InputNone  = "none"
	InputStdin = "stdin"
	InputAuto  = "auto"
)

// lineInput turns each line read from r into one press.
//
// Presses are counted so that a burst of lines between two ticks is not
// lost: every Pressed call consumes at most one.
type lineInput struct {
	pending atomic.Int64
}

// newLineInput starts a goroutine that reads r until EOF or ctx is done.
func newLineInput(ctx context.Context, r io.Reader) *lineInput {
	in := &lineInput{}
	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if ctx.Err() != nil {
				return
			}
			in.pending.Add(1)
		}
	}()
	return in
}

// Pressed consumes one pending press.
func (in *lineInput) Pressed() bool {
	for {
		n := in.pending.Load()
		if n <= 0 {
			return false
		}
		if in.pending.CompareAndSwap(n, n-1) {
			return true
		}
	}
}

type constInput bool

func (c constInput) Pressed() bool { return bool(c) }

func isValidInput(mode string) error {
	switch mode {
	case InputNone, InputStdin, InputAuto:
		return nil
	default:
		return fmt.Errorf("invalid input %q: must be one of none, stdin, auto", mode)
	}
}
