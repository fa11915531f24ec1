// Package session ties the models, codecs and stores into one editing
// session over the two tracked config files.
//
// Mutations change the in-memory models and notify the file's auto-save
// controller; the controller later runs the commit pipeline:
//
//	serialize -> snapshot live file -> atomic write -> chmod -> reload -> journal
//
// Edits made by other programs are not merged. The last writer wins.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tilecfg/internal/autosave"
	"tilecfg/internal/core"
	"tilecfg/internal/hotkey"
	"tilecfg/internal/wm"
)

// Paths locates the tracked files.
type Paths struct {
	Primary string
	Hotkeys string
}

// Deps are the collaborators of an Editor. Vault and Encryptor may be nil
// when archiving or encryption is disabled; Journal, Reloader and Logger
// default to no-ops.
type Deps struct {
	Files     core.FileStore
	Backups   core.BackupStore
	Settings  *core.SettingsHandle
	Reloader  core.Reloader
	Journal   core.Journal
	Vault     core.Vault
	Encryptor core.Encryptor
	Logger    core.Logger

	// TimerFunc overrides the auto-save timers.
	TimerFunc autosave.TimerFunc
}

// Editor is one editing session. All methods are safe for concurrent use.
type Editor struct {
	files     core.FileStore
	backups   core.BackupStore
	settings  *core.SettingsHandle
	reloader  core.Reloader
	journal   core.Journal
	vault     core.Vault
	encryptor core.Encryptor
	logger    core.Logger

	primary *Document
	hotkeys *Document

	mu sync.Mutex // guards the models and Document.lastText
	wm *wm.Config
	hk *hotkey.Config
}

// Document is one tracked file and its auto-save controller.
type Document struct {
	Target     core.Target
	Path       string
	Executable bool

	ctrl *autosave.Controller
	ioMu sync.Mutex // serializes commits and restores of this file

	lastText []byte // last content loaded from or written to Path
}

func New(paths Paths, deps Deps) *Editor {
	e := &Editor{
		files:     deps.Files,
		backups:   deps.Backups,
		settings:  deps.Settings,
		reloader:  deps.Reloader,
		journal:   deps.Journal,
		vault:     deps.Vault,
		encryptor: deps.Encryptor,
		logger:    deps.Logger,
		wm:        wm.NewConfig(),
		hk:        hotkey.NewConfig(),
	}
	if e.settings == nil {
		e.settings = core.NewSettingsHandle(core.DefaultSettings())
	}
	if e.reloader == nil {
		e.reloader = nopReloader{}
	}
	if e.journal == nil {
		e.journal = nopJournal{}
	}
	if e.logger == nil {
		e.logger = core.NewNopLogger()
	}

	e.primary = &Document{Target: core.TargetPrimary, Path: paths.Primary, Executable: true}
	e.hotkeys = &Document{Target: core.TargetHotkeys, Path: paths.Hotkeys}
	for _, d := range e.documents() {
		opts := []autosave.Option{
			autosave.WithLogger(e.logger),
			autosave.WithName(string(d.Target)),
		}
		if deps.TimerFunc != nil {
			opts = append(opts, autosave.WithTimerFunc(deps.TimerFunc))
		}
		d.ctrl = autosave.New(e.settings, func(ctx context.Context) error {
			return e.commit(ctx, d)
		}, opts...)
	}
	return e
}

func (e *Editor) documents() []*Document {
	return []*Document{e.primary, e.hotkeys}
}

// Document returns the tracked file for target.
func (e *Editor) Document(target core.Target) (*Document, error) {
	switch target {
	case core.TargetPrimary:
		return e.primary, nil
	case core.TargetHotkeys:
		return e.hotkeys, nil
	}
	return nil, core.Invalid("target", string(target), "must be primary or hotkeys")
}

func (e *Editor) documentFor(path string) (*Document, error) {
	for _, d := range e.documents() {
		if d.Path == path {
			return d, nil
		}
	}
	return nil, core.Invalid("backup", path, "does not belong to a tracked file")
}

// Load reads both files and replaces the models. A missing file yields the
// defaults. Pending edits are discarded.
func (e *Editor) Load() error {
	for _, d := range e.documents() {
		if err := e.load(d); err != nil {
			return err
		}
	}
	return nil
}

func (e *Editor) load(d *Document) error {
	data, err := e.files.ReadFile(d.Path)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("loading %s config: %w", d.Target, err)
	}
	if err != nil {
		e.logger.Info("config file missing, using defaults", "file", d.Target, "path", d.Path)
	}

	e.mu.Lock()
	e.replaceLocked(d, data)
	e.mu.Unlock()

	d.ctrl.Discard()
	return nil
}

// replaceLocked parses data into the model of d. data may be nil.
func (e *Editor) replaceLocked(d *Document, data []byte) {
	switch d.Target {
	case core.TargetPrimary:
		e.wm = wm.Parse(string(data))
	case core.TargetHotkeys:
		e.hk = hotkey.Parse(string(data))
	}
	d.lastText = data
}

func (e *Editor) serializeLocked(d *Document) string {
	if d.Target == core.TargetPrimary {
		return wm.Serialize(e.wm)
	}
	return hotkey.Serialize(e.hk)
}

// Known returns the content last loaded from target's file, or the content
// a save is writing to it.
func (e *Editor) Known(target core.Target) []byte {
	d, err := e.Document(target)
	if err != nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return d.lastText
}

// Primary returns a copy of the window manager model.
func (e *Editor) Primary() *wm.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wm.Clone()
}

// Hotkeys returns a copy of the hotkey model.
func (e *Editor) Hotkeys() *hotkey.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hk.Clone()
}

// Text returns the serialized form of target's current model.
func (e *Editor) Text(target core.Target) (string, error) {
	d, err := e.Document(target)
	if err != nil {
		return "", err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.serializeLocked(d), nil
}

// Conflicts reports enabled shortcuts sharing a hotkey.
func (e *Editor) Conflicts() []hotkey.Conflict {
	e.mu.Lock()
	defer e.mu.Unlock()
	return hotkey.FindConflicts(e.hk)
}

// SaveNow commits immediately every file that has unsaved edits or
// already exists. A missing file that was never edited is not created.
func (e *Editor) SaveNow(ctx context.Context) error {
	var errs []error
	for _, d := range e.documents() {
		if !d.ctrl.HasUnsavedChanges() {
			exists, err := e.files.Exists(d.Path)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if !exists {
				continue
			}
		}
		if err := d.ctrl.SaveNow(ctx); err != nil {
			errs = append(errs, fmt.Errorf("saving %s config: %w", d.Target, err))
		}
	}
	return errors.Join(errs...)
}

// HasUnsavedChanges reports whether either file has uncommitted edits.
func (e *Editor) HasUnsavedChanges() bool {
	for _, d := range e.documents() {
		if d.ctrl.HasUnsavedChanges() {
			return true
		}
	}
	return false
}

// Close stops both auto-save controllers without flushing.
func (e *Editor) Close() {
	for _, d := range e.documents() {
		d.ctrl.Close()
	}
}

type nopReloader struct{}

func (nopReloader) Reload(context.Context, core.Target) error { return nil }

type nopJournal struct{}

func (nopJournal) Begin(string, string, string) (int64, error) { return 0, nil }
func (nopJournal) Finish(int64, string, string) error          { return nil }
func (nopJournal) List(int) ([]*core.OperationRecord, error)   { return nil, nil }
func (nopJournal) Close() error                                { return nil }
