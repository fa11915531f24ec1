package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"tilecfg/internal/core"
	"tilecfg/internal/diff"
)

// CreateBackup snapshots target's live file.
func (e *Editor) CreateBackup(target core.Target, description string) (*core.BackupInfo, error) {
	d, err := e.Document(target)
	if err != nil {
		return nil, err
	}
	var info *core.BackupInfo
	err = e.track("backup", target, d.Path, func() (string, error) {
		var err error
		info, err = e.backups.Create(d.Path, description)
		if err != nil {
			return "", err
		}
		return filepath.Base(info.SnapshotPath), nil
	})
	return info, err
}

// ListBackups returns target's snapshots, newest first.
func (e *Editor) ListBackups(target core.Target) ([]*core.BackupInfo, error) {
	d, err := e.Document(target)
	if err != nil {
		return nil, err
	}
	return e.backups.List(d.Path)
}

// FindBackup resolves ref to one of target's snapshots. ref is either a
// 1-based position in the newest-first list, a timestamp such as
// "20240115_103000", or a snapshot file name.
func (e *Editor) FindBackup(target core.Target, ref string) (*core.BackupInfo, error) {
	backups, err := e.ListBackups(target)
	if err != nil {
		return nil, err
	}
	if n, err := strconv.Atoi(ref); err == nil && len(ref) < 8 {
		if n < 1 || n > len(backups) {
			return nil, fmt.Errorf("backup #%d of %s: %w", n, target, core.ErrNotFound)
		}
		return backups[n-1], nil
	}
	for _, b := range backups {
		name := filepath.Base(b.SnapshotPath)
		if name == ref || strings.HasSuffix(name, "."+ref) {
			return b, nil
		}
	}
	return nil, fmt.Errorf("backup %s of %s: %w", ref, target, core.ErrNotFound)
}

// RestoreBackup replaces the live file with b and reloads the model from
// it. Pending edits of that file are discarded; the live file is
// snapshotted first so the restore can itself be undone.
func (e *Editor) RestoreBackup(ctx context.Context, b *core.BackupInfo) error {
	d, err := e.documentFor(b.SourcePath)
	if err != nil {
		return err
	}

	d.ctrl.Discard()
	err = e.track("restore", d.Target, filepath.Base(b.SnapshotPath), func() (string, error) {
		d.ioMu.Lock()
		defer d.ioMu.Unlock()

		if err := e.backups.Restore(b, true); err != nil {
			return "", err
		}
		data, err := e.files.ReadFile(d.Path)
		if err != nil {
			return "", fmt.Errorf("reading restored file: %w", err)
		}
		e.mu.Lock()
		e.replaceLocked(d, data)
		e.mu.Unlock()
		return "", nil
	})
	if err != nil {
		return err
	}
	// edits racing with the restore were made against the replaced model
	d.ctrl.Discard()

	if e.settings.Get().Reload {
		if err := e.reloader.Reload(ctx, d.Target); err != nil {
			e.logger.Warn("reload failed", "file", d.Target, "error", err)
		}
	}
	return nil
}

// DeleteBackup removes a snapshot. The live file is untouched.
func (e *Editor) DeleteBackup(b *core.BackupInfo) error {
	d, err := e.documentFor(b.SourcePath)
	if err != nil {
		return err
	}
	return e.track("delete", d.Target, filepath.Base(b.SnapshotPath), func() (string, error) {
		return "", e.backups.Delete(b)
	})
}

// CompareBackup diffs snapshot b (old) against the live file (new). A
// missing live file compares as empty.
func (e *Editor) CompareBackup(b *core.BackupInfo) (diff.Result, error) {
	old, err := e.backups.Read(b)
	if err != nil {
		return diff.Result{}, err
	}
	live, err := e.files.ReadFile(b.SourcePath)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return diff.Result{}, err
	}
	return diff.Compare(string(old), string(live)), nil
}

// ComparePending diffs target's live file (old) against the text the next
// commit would write (new).
func (e *Editor) ComparePending(target core.Target) (diff.Result, error) {
	d, err := e.Document(target)
	if err != nil {
		return diff.Result{}, err
	}
	live, err := e.files.ReadFile(d.Path)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return diff.Result{}, err
	}
	text, err := e.Text(target)
	if err != nil {
		return diff.Result{}, err
	}
	return diff.Compare(string(live), text), nil
}
