package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"tilecfg/internal/autosave"
	"tilecfg/internal/core"
)

// commit runs the save pipeline for d. Steps run strictly in order:
// a failed snapshot aborts the write, a failed reload is only logged.
func (e *Editor) commit(ctx context.Context, d *Document) error {
	d.ioMu.Lock()
	defer d.ioMu.Unlock()

	e.mu.Lock()
	text := []byte(e.serializeLocked(d))
	e.mu.Unlock()

	return e.track("commit", d.Target, d.Path, func() (string, error) {
		live, err := e.files.ReadFile(d.Path)
		exists := err == nil
		if err != nil && !errors.Is(err, core.ErrNotFound) {
			return "", err
		}
		if exists && bytes.Equal(live, text) {
			e.setLastText(d, text)
			return "unchanged", nil
		}

		settings := e.settings.Get()
		if settings.BackupOnSave && exists {
			if _, err := e.backups.Create(d.Path, "before save"); err != nil {
				return "", fmt.Errorf("snapshot before save: %w", err)
			}
		}

		// Known must report text before the rename lands so the watcher
		// does not take our own write for an external edit.
		prev := e.swapLastText(d, text)
		if err := e.files.WriteFileAtomic(d.Path, text, 0644); err != nil {
			e.setLastText(d, prev)
			return "", err
		}

		if d.Executable {
			if err := e.files.MarkExecutable(d.Path); err != nil {
				return "", err
			}
		}

		if settings.Reload {
			if err := e.reloader.Reload(ctx, d.Target); err != nil {
				e.logger.Warn("reload failed", "file", d.Target, "error", err)
				return "written; reload failed", nil
			}
		}
		e.logger.Info("config written", "file", d.Target, "path", d.Path, "bytes", len(text))
		return "", nil
	})
}

func (e *Editor) setLastText(d *Document, text []byte) {
	e.mu.Lock()
	d.lastText = text
	e.mu.Unlock()
}

func (e *Editor) swapLastText(d *Document, text []byte) []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	prev := d.lastText
	d.lastText = text
	return prev
}

// track journals fn as one operation. Journal failures are logged and
// never change the outcome of fn.
func (e *Editor) track(operation string, target core.Target, detail string, fn func() (string, error)) error {
	id, jerr := e.journal.Begin(operation, string(target), detail)
	if jerr != nil {
		e.logger.Warn("journal begin failed", "operation", operation, "error", jerr)
	}

	result, err := fn()

	status := core.StatusSuccess
	if err != nil {
		status = core.StatusError
		result = err.Error()
	}
	if jerr == nil {
		if ferr := e.journal.Finish(id, status, result); ferr != nil {
			e.logger.Warn("journal finish failed", "operation", operation, "error", ferr)
		}
	}
	return err
}

// History returns the most recent journaled operations.
func (e *Editor) History(limit int) ([]*core.OperationRecord, error) {
	return e.journal.List(limit)
}

// DocumentStatus describes one tracked file.
type DocumentStatus struct {
	Target    core.Target
	Path      string
	Exists    bool
	Unsaved   bool
	State     autosave.State
	LastError error

	// Drift is set when the file on disk differs from what the current
	// model serializes to, e.g. after an edit by another program or when
	// loading dropped unrecognized lines.
	Drift bool
}

// Status reports both tracked files.
func (e *Editor) Status() ([]DocumentStatus, error) {
	var out []DocumentStatus
	for _, d := range e.documents() {
		st := DocumentStatus{
			Target:    d.Target,
			Path:      d.Path,
			Unsaved:   d.ctrl.HasUnsavedChanges(),
			State:     d.ctrl.State(),
			LastError: d.ctrl.LastError(),
		}

		live, err := e.files.ReadFile(d.Path)
		switch {
		case errors.Is(err, core.ErrNotFound):
		case err != nil:
			return nil, fmt.Errorf("reading %s config: %w", d.Target, err)
		default:
			st.Exists = true
		}

		e.mu.Lock()
		text := e.serializeLocked(d)
		e.mu.Unlock()
		st.Drift = st.Exists && string(live) != text

		out = append(out, st)
	}
	return out, nil
}
