package core

import "time"

// BackupInfo describes one persisted snapshot of a tracked file.
// The snapshot path is its only identity; snapshots are never modified in place.
type BackupInfo struct {
	SourcePath   string
	SnapshotPath string
	CreatedAt    time.Time // second precision, local time
	Description  string
	Size         int64
}

// BackupStore keeps timestamped snapshots of tracked files next to them.
type BackupStore interface {
	// Create snapshots the current content of path. Returns ErrNotFound when
	// the file does not exist. Retention is enforced before returning.
	Create(path string, description string) (*BackupInfo, error)

	// List returns the snapshots of path, newest first.
	List(path string) ([]*BackupInfo, error)

	// Read returns the content of a snapshot.
	Read(b *BackupInfo) ([]byte, error)

	// Restore overwrites the live file with the snapshot content. When
	// createBackupFirst is true the live file is snapshotted beforehand.
	Restore(b *BackupInfo, createBackupFirst bool) error

	// Delete removes a snapshot. The live file is not touched.
	Delete(b *BackupInfo) error
}
