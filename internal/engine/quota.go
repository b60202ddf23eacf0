package engine

import "fmt"

// DefaultMaxChainSteps bounds the transitions a single Tick may make.
//
// Instantaneous commands chain synchronously, so a jump back to an earlier
// instantaneous line would otherwise spin forever inside one Tick.
const DefaultMaxChainSteps = 10000

// chainQuota counts transitions within one Tick.
type chainQuota struct {
	maxSteps int
	current  int
}

func newChainQuota(maxSteps int) *chainQuota {
	return &chainQuota{maxSteps: maxSteps}
}

// Check records one transition toward index and fails once the limit is passed.
// A non-positive limit disables the check.
func (q *chainQuota) Check(index int) error {
	q.current++
	if q.maxSteps > 0 && q.current > q.maxSteps {
		return &RuntimeError{
			Code:    ErrCodeChainQuotaExceeded,
			Message: fmt.Sprintf("tick exceeded %d chained transitions", q.maxSteps),
			Index:   index,
		}
	}
	return nil
}
