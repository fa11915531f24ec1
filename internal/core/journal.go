package core

import "time"

// Operation statuses recorded in the journal.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusError   = "error"
)

// OperationRecord is one journaled engine operation (commit, backup, restore...).
type OperationRecord struct {
	ID         int64
	Operation  string
	Target     string
	Detail     string
	Status     string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Journal records engine operations for later inspection.
type Journal interface {
	// Begin records the start of an operation and returns its ID.
	Begin(operation, target, detail string) (int64, error)

	// Finish marks an operation as done with the given status.
	Finish(id int64, status, detail string) error

	// List returns the most recent operations, newest first.
	List(limit int) ([]*OperationRecord, error)

	Close() error
}
