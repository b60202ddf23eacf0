package store

import "time"

// RunStatus is the outcome recorded for a run.
type RunStatus string

const (
	RunRunning     RunStatus = "running"
	RunEnded       RunStatus = "ended"
	RunFailed      RunStatus = "failed"
	RunInterrupted RunStatus = "interrupted"
)

// Run is the journal row for one script execution.
type Run struct {
	ID         string     `json:"id"`
	Source     string     `json:"source"`
	LineCount  int        `json:"line_count"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	FinalIndex int        `json:"final_index"`
	Status     RunStatus  `json:"status"`
	Error      string     `json:"error,omitempty"`
}

// Outcome is what FinishRun records.
type Outcome struct {
	FinalIndex int
	Status     RunStatus
	Err        error
	FinishedAt time.Time
}
