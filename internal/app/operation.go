package app

import (
	"time"

	"tilecfg/internal/core"
)

// Operation is one CLI invocation. Its ID tags every log line written
// while it runs.
type Operation struct {
	ID      string
	Name    string
	Args    string
	Started time.Time
	Err     error
}

// NewOperation starts an operation. IDs are the first eight characters of
// a generated ID, enough to tell invocations apart in the log.
func NewOperation(name, args string, idgen core.IDGenerator, clock core.Clock) *Operation {
	id := idgen.New()
	if len(id) > 8 {
		id = id[:8]
	}
	return &Operation{ID: id, Name: name, Args: args, Started: clock.Now()}
}

// Status is the journal status matching Err.
func (op *Operation) Status() string {
	if op.Err != nil {
		return core.StatusError
	}
	return core.StatusSuccess
}

// Elapsed is the time since the operation started.
func (op *Operation) Elapsed(clock core.Clock) time.Duration {
	return clock.Now().Sub(op.Started)
}
