package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents a fault detected while sequencing a script.
//
// Runtime errors include:
//   - Unknown command: field 0 of a line has no registered factory
//   - Empty script: Restart with no lines
//   - Decode failure: a present argument could not be parsed
//   - Chain quota: too many instantaneous transitions in one tick
//
// All of them except IndexOutOfRange abort the run.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Index is the script index involved, or -1.
	Index int

	// Line is the raw script line involved, if any.
	Line string

	// Err is the underlying cause, if any.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeUnknownCommand indicates a line names an unregistered command.
	ErrCodeUnknownCommand RuntimeErrorCode = "UNKNOWN_COMMAND"

	// ErrCodeEmptyScript indicates a restart with no lines to run.
	ErrCodeEmptyScript RuntimeErrorCode = "EMPTY_SCRIPT"

	// ErrCodeNotStarted indicates Tick was called before Start.
	ErrCodeNotStarted RuntimeErrorCode = "NOT_STARTED"

	// ErrCodeIndexOutOfRange indicates a jump target outside [0, Count].
	ErrCodeIndexOutOfRange RuntimeErrorCode = "INDEX_OUT_OF_RANGE"

	// ErrCodeDecodeFailed indicates a malformed argument.
	ErrCodeDecodeFailed RuntimeErrorCode = "DECODE_FAILED"

	// ErrCodeConstructFailed indicates a factory rejected its arguments for
	// a reason other than a decode failure.
	ErrCodeConstructFailed RuntimeErrorCode = "CONSTRUCT_FAILED"

	// ErrCodeChainQuotaExceeded indicates a tick chained through more
	// instantaneous commands than the configured limit.
	ErrCodeChainQuotaExceeded RuntimeErrorCode = "CHAIN_QUOTA_EXCEEDED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Index >= 0 && e.Line != "" {
		msg = fmt.Sprintf("%s (index=%d, line=%q)", msg, e.Index, e.Line)
	} else if e.Index >= 0 {
		msg = fmt.Sprintf("%s (index=%d)", msg, e.Index)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// HasCode reports whether err wraps a RuntimeError with the given code.
func HasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// IsUnknownCommand reports whether err is an unknown command fault.
func IsUnknownCommand(err error) bool {
	return HasCode(err, ErrCodeUnknownCommand)
}

// IsDecodeFault reports whether err is an argument decode fault.
func IsDecodeFault(err error) bool {
	return HasCode(err, ErrCodeDecodeFailed)
}

// IsQuotaError reports whether err is a chain quota fault.
func IsQuotaError(err error) bool {
	return HasCode(err, ErrCodeChainQuotaExceeded)
}

// NewEmptyScriptError creates a RuntimeError for a restart with no lines.
func NewEmptyScriptError() *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeEmptyScript,
		Message: "script has no lines",
		Index:   -1,
	}
}

// NewNotStartedError creates a RuntimeError for a Tick before Start.
func NewNotStartedError() *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeNotStarted,
		Message: "sequencer has not been started",
		Index:   -1,
	}
}

// NewIndexError creates a RuntimeError for a jump target outside [0, count].
func NewIndexError(index, count int) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeIndexOutOfRange,
		Message: fmt.Sprintf("jump target outside [0, %d]", count),
		Index:   index,
	}
}
