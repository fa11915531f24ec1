// Package backup keeps timestamped snapshots of the tracked config files
// next to the files themselves.
//
// A snapshot of ~/.config/yabai/yabairc taken at 2024-01-15 10:30:00 local
// time is stored as ~/.config/yabai/.yabairc.backup.20240115_103000. The timestamp is the only identity: two snapshots
// of the same file within one second share a path and the second overwrites
// the first. An optional description lives in a sidecar file with a ".desc"
// suffix.
package backup

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"tilecfg/internal/core"
	"tilecfg/internal/fs"
)

const (
	timeLayout = "20060102_150405"
	marker     = ".backup."
	descSuffix = ".desc"
)

// Store is the filesystem implementation of core.BackupStore. Retention is
// read from the shared settings on every Create.
type Store struct {
	clock    core.Clock
	settings *core.SettingsHandle
	logger   core.Logger
}

func NewStore(clock core.Clock, settings *core.SettingsHandle, logger core.Logger) *Store {
	return &Store{clock: clock, settings: settings, logger: logger}
}

// SnapshotPath returns the snapshot path for source at time t.
func SnapshotPath(source string, t time.Time) string {
	return filepath.Join(filepath.Dir(source), snapshotPrefix(source)+t.Local().Format(timeLayout))
}

func snapshotPrefix(source string) string {
	return "." + filepath.Base(source) + marker
}

// Create snapshots path and evicts the oldest snapshots beyond the
// configured maximum.
func (s *Store) Create(path string, description string) (*core.BackupInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, notFoundOr("read", path, err)
	}
	mode, err := fs.FileMode(path, 0644)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().Local().Truncate(time.Second)
	info := &core.BackupInfo{
		SourcePath:   path,
		SnapshotPath: SnapshotPath(path, now),
		CreatedAt:    now,
		Description:  strings.TrimSpace(description),
		Size:         int64(len(data)),
	}

	if err := fs.WriteFileAtomic(info.SnapshotPath, data, mode); err != nil {
		return nil, fmt.Errorf("writing snapshot: %w", err)
	}
	if err := s.writeDescription(info); err != nil {
		return nil, err
	}
	s.logger.Info("backup created", "source", path, "snapshot", info.SnapshotPath, "size", info.Size)

	if err := s.evict(path); err != nil {
		return info, fmt.Errorf("enforcing retention: %w", err)
	}
	return info, nil
}

func (s *Store) writeDescription(info *core.BackupInfo) error {
	desc := info.SnapshotPath + descSuffix
	if info.Description == "" {
		// a same-second overwrite must not inherit the old description
		if err := os.Remove(desc); err != nil && !errors.Is(err, iofs.ErrNotExist) {
			return &core.IOError{Op: "remove", Path: desc, Err: err}
		}
		return nil
	}
	if err := fs.WriteFileAtomic(desc, []byte(info.Description+"\n"), 0644); err != nil {
		return fmt.Errorf("writing description: %w", err)
	}
	return nil
}

// evict deletes snapshots beyond MaxBackups, oldest first.
func (s *Store) evict(path string) error {
	limit := s.settings.Get().MaxBackups
	backups, err := s.List(path)
	if err != nil {
		return err
	}
	for i := len(backups) - 1; i >= limit; i-- {
		if err := s.Delete(backups[i]); err != nil {
			return err
		}
		s.logger.Debug("backup evicted", "snapshot", backups[i].SnapshotPath)
	}
	return nil
}

// List returns the snapshots of path, newest first. Siblings that do not
// match the snapshot naming pattern are ignored.
func (s *Store) List(path string) ([]*core.BackupInfo, error) {
	dir := filepath.Dir(path)
	prefix := snapshotPrefix(path)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, nil
		}
		return nil, &core.IOError{Op: "list", Path: dir, Err: err}
	}

	var backups []*core.BackupInfo
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || !strings.HasPrefix(name, prefix) {
			continue
		}
		stamp := strings.TrimPrefix(name, prefix)
		if len(stamp) != len(timeLayout) {
			continue
		}
		created, err := time.ParseInLocation(timeLayout, stamp, time.Local)
		if err != nil {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		snapshot := filepath.Join(dir, name)
		backups = append(backups, &core.BackupInfo{
			SourcePath:   path,
			SnapshotPath: snapshot,
			CreatedAt:    created,
			Description:  readDescription(snapshot),
			Size:         fi.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

func readDescription(snapshot string) string {
	data, err := os.ReadFile(snapshot + descSuffix)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Read returns the content of a snapshot.
func (s *Store) Read(b *core.BackupInfo) ([]byte, error) {
	data, err := os.ReadFile(b.SnapshotPath)
	if err != nil {
		return nil, notFoundOr("read", b.SnapshotPath, err)
	}
	return data, nil
}

// Restore replaces the live file with the snapshot content. With
// createBackupFirst the live file, if it exists, is snapshotted first so
// the restore can itself be undone. The live file keeps its permissions.
func (s *Store) Restore(b *core.BackupInfo, createBackupFirst bool) error {
	data, err := s.Read(b)
	if err != nil {
		return err
	}

	if createBackupFirst {
		_, err := s.Create(b.SourcePath, "before restore of "+b.CreatedAt.Format(time.DateTime))
		if err != nil && !errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("backing up live file: %w", err)
		}
	}

	snapMode, err := fs.FileMode(b.SnapshotPath, 0644)
	if err != nil {
		// the pre-restore backup may have evicted or overwritten b
		snapMode = 0644
	}
	mode, err := fs.FileMode(b.SourcePath, snapMode)
	if err != nil {
		return err
	}
	if err := fs.WriteFileAtomic(b.SourcePath, data, mode); err != nil {
		return fmt.Errorf("restoring %s: %w", b.SourcePath, err)
	}
	s.logger.Info("backup restored", "source", b.SourcePath, "snapshot", b.SnapshotPath)
	return nil
}

// Delete removes a snapshot and its description. The live file is untouched.
func (s *Store) Delete(b *core.BackupInfo) error {
	if err := os.Remove(b.SnapshotPath); err != nil {
		return notFoundOr("remove", b.SnapshotPath, err)
	}
	desc := b.SnapshotPath + descSuffix
	if err := os.Remove(desc); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return &core.IOError{Op: "remove", Path: desc, Err: err}
	}
	return nil
}

func notFoundOr(op, path string, err error) error {
	if errors.Is(err, iofs.ErrNotExist) {
		return fmt.Errorf("%s: %w", path, core.ErrNotFound)
	}
	return &core.IOError{Op: op, Path: path, Err: err}
}

// Compile-time check that Store implements core.BackupStore
var _ core.BackupStore = (*Store)(nil)
