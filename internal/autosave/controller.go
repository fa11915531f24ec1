// Package autosave debounces model edits into single commits.
//
// A Controller moves between three states:
//
//	Idle          --Notify-->        PendingCommit (timer armed)
//	PendingCommit --Notify-->        PendingCommit (timer re-armed)
//	PendingCommit --timer fires-->   Committing
//	any           --SaveNow-->       Committing (pending timer cancelled)
//	Committing    --commit returns-> Idle, or PendingCommit when an edit
//	                                 arrived during the commit
//
// At most one commit runs at a time.
package autosave

import (
	"context"
	"errors"
	"sync"
	"time"

	"tilecfg/internal/core"
)

// ErrClosed is returned by SaveNow after Close.
var ErrClosed = errors.New("auto-save controller closed")

type State int

const (
	Idle State = iota
	PendingCommit
	Committing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PendingCommit:
		return "pending"
	case Committing:
		return "committing"
	default:
		return "unknown"
	}
}

// CommitFunc persists the current model. It is never called concurrently
// with itself by one Controller.
type CommitFunc func(ctx context.Context) error

// Timer is the part of *time.Timer the controller uses.
type Timer interface {
	Stop() bool
}

// TimerFunc schedules f after d, like time.AfterFunc.
type TimerFunc func(d time.Duration, f func()) Timer

// Option configures a Controller.
type Option func(*Controller)

// WithTimerFunc replaces time.AfterFunc, letting tests fire timers by hand.
func WithTimerFunc(fn TimerFunc) Option {
	return func(c *Controller) {
		c.afterFunc = fn
	}
}

func WithLogger(logger core.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithName labels log lines, e.g. with the tracked file's target.
func WithName(name string) Option {
	return func(c *Controller) {
		c.name = name
	}
}

// Controller is the debounced auto-save state machine for one tracked file.
// All methods are safe for concurrent use.
type Controller struct {
	settings  *core.SettingsHandle
	commit    CommitFunc
	afterFunc TimerFunc
	logger    core.Logger
	name      string

	mu      sync.Mutex
	state   State
	timer   Timer
	seq     uint64 // invalidates callbacks of stopped timers
	edits   uint64 // bumped by every Notify
	saved   uint64 // edits value covered by the last successful commit
	queued  bool   // an edit arrived while Committing
	lastErr error
	done    chan struct{} // closed when the running commit returns
	closed  bool
}

// New creates an idle controller. Delay and the auto-save switch are read
// from settings on every edit.
func New(settings *core.SettingsHandle, commit CommitFunc, opts ...Option) *Controller {
	c := &Controller{
		settings: settings,
		commit:   commit,
		afterFunc: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
		logger: core.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Notify records a model edit. With auto-save enabled it (re)arms the
// debounce timer, or queues the edit when a commit is running. With
// auto-save disabled the edit is only marked unsaved.
func (c *Controller) Notify() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.edits++
	if !c.settings.Get().AutoSave {
		return
	}
	if c.state == Committing {
		c.queued = true
		return
	}
	c.armLocked()
}

func (c *Controller) armLocked() {
	c.stopTimerLocked()
	c.seq++
	seq := c.seq
	delay := c.settings.Get().Delay
	c.timer = c.afterFunc(delay, func() { c.fire(seq) })
	c.state = PendingCommit
	c.logger.Debug("commit scheduled", "file", c.name, "delay", delay)
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) fire(seq uint64) {
	c.mu.Lock()
	if c.closed || seq != c.seq || c.state != PendingCommit {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	if !c.settings.Get().AutoSave {
		c.state = Idle
		c.mu.Unlock()
		return
	}
	edits := c.beginLocked()
	c.mu.Unlock()

	// a started commit is never cancelled
	err := c.commit(context.Background())
	c.finish(edits, err)
	if err != nil {
		c.logger.Error("auto-save failed", "file", c.name, "error", err)
	} else {
		c.logger.Info("auto-save committed", "file", c.name)
	}
}

func (c *Controller) beginLocked() uint64 {
	c.state = Committing
	c.queued = false
	c.done = make(chan struct{})
	return c.edits
}

func (c *Controller) finish(edits uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastErr = err
	if err == nil && edits > c.saved {
		c.saved = edits
	}
	c.state = Idle
	close(c.done)
	c.done = nil

	if c.queued && !c.closed {
		c.queued = false
		if c.settings.Get().AutoSave {
			c.armLocked()
		}
	}
}

// SaveNow commits immediately, cancelling any pending timer. If a commit
// is already running it waits for it and then commits again, so edits made
// before the call are always covered.
func (c *Controller) SaveNow(ctx context.Context) error {
	for {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return ErrClosed
		}
		if c.state == Committing {
			done := c.done
			c.mu.Unlock()
			select {
			case <-done:
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		c.stopTimerLocked()
		c.seq++
		edits := c.beginLocked()
		c.mu.Unlock()

		err := c.commit(ctx)
		c.finish(edits, err)
		return err
	}
}

// Discard forgets pending edits: the timer is cancelled and the current
// state counts as saved. Used after the model was replaced from disk.
// A running commit is waited for first.
func (c *Controller) Discard() {
	c.mu.Lock()
	for c.state == Committing {
		done := c.done
		c.mu.Unlock()
		<-done
		c.mu.Lock()
	}
	defer c.mu.Unlock()

	c.stopTimerLocked()
	c.seq++
	c.queued = false
	c.saved = c.edits
	c.state = Idle
}

// HasUnsavedChanges reports whether an edit has not been committed yet.
func (c *Controller) HasUnsavedChanges() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.edits > c.saved
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastError is the result of the most recent commit.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Close cancels a pending timer and waits for a running commit. Pending
// edits are not flushed; call SaveNow first to keep them.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.stopTimerLocked()
	c.seq++
	c.queued = false
	done := c.done
	if c.state == PendingCommit {
		c.state = Idle
	}
	c.mu.Unlock()

	if done != nil {
		<-done
	}
}
