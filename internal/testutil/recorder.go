package testutil

import (
	"fmt"
	"sync"

	"github.com/roach88/seqctl/internal/args"
	"github.com/roach88/seqctl/internal/command"
)

// CallLog collects lifecycle calls from Recorder commands in order.
type CallLog struct {
	mu    sync.Mutex
	calls []string
}

// NewCallLog creates an empty log.
func NewCallLog() *CallLog {
	return &CallLog{}
}

func (l *CallLog) add(method, label string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, method+":"+label)
}

// Calls returns the recorded calls as "method:label" strings.
func (l *CallLog) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.calls))
	copy(out, l.calls)
	return out
}

// Count returns how many times method was called for label.
func (l *CallLog) Count(method, label string) int {
	want := method + ":" + label
	n := 0
	for _, c := range l.Calls() {
		if c == want {
			n++
		}
	}
	return n
}

// Reset empties the log.
func (l *CallLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = nil
}

// Recorder is a command that logs its lifecycle and ends after a fixed
// number of updates.
//
// Script form:
//
//	Rec|updates|label
//
// updates defaults to 0 (ends right after Start); label defaults to
// "Rec@<updates>" so unlabelled lines stay distinguishable in a CallLog.
type Recorder struct {
	label   string
	needed  int
	updates int
	log     *CallLog
	onStart func()
}

// RecorderFactory returns a factory producing Recorders that write to log.
func RecorderFactory(log *CallLog) command.Factory {
	return RecorderFactoryWithHook(log, nil)
}

// RecorderFactoryWithHook is like RecorderFactory, but each Recorder calls
// onStart(label) from its Start method. Tests use it to issue jumps or ends
// from inside a command.
func RecorderFactoryWithHook(log *CallLog, onStart func(label string)) command.Factory {
	return func(a *args.Arguments) (command.Command, error) {
		n, err := a.Int(1)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("updates must be non-negative, got %d", n)
		}
		r := &Recorder{
			label:  a.Arg(2, fmt.Sprintf("%s@%d", a.Name(), n)),
			needed: n,
			log:    log,
		}
		if onStart != nil {
			label := r.label
			r.onStart = func() { onStart(label) }
		}
		return r, nil
	}
}

// IsEnd reports whether the required number of updates has happened.
func (r *Recorder) IsEnd() bool {
	return r.updates >= r.needed
}

func (r *Recorder) Start() {
	r.log.add("start", r.label)
	if r.onStart != nil {
		r.onStart()
	}
}

func (r *Recorder) Update() {
	r.updates++
	r.log.add("update", r.label)
}

func (r *Recorder) Dispose() {
	r.log.add("dispose", r.label)
}
