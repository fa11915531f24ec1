package core

import "context"

// Target names a tracked config file.
type Target string

const (
	TargetPrimary Target = "primary"
	TargetHotkeys Target = "hotkeys"
)

// Reloader signals an external daemon to pick up a rewritten config file.
// Reloads are best-effort: a failure never rolls back the write.
type Reloader interface {
	Reload(ctx context.Context, target Target) error
}
