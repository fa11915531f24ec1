package testutil

import (
	"context"
	"sync"

	"tilecfg/internal/core"
)

// RecordingReloader records reload requests. Err, when set, is returned
// from every call after recording it.
type RecordingReloader struct {
	mu      sync.Mutex
	targets []core.Target
	Err     error
}

func (r *RecordingReloader) Reload(_ context.Context, target core.Target) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets = append(r.targets, target)
	return r.Err
}

// Targets returns the reloaded targets in call order.
func (r *RecordingReloader) Targets() []core.Target {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Target(nil), r.targets...)
}
