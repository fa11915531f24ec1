package core

import "io/fs"

// FileStore abstracts reads and writes of the tracked config files.
type FileStore interface {
	// ReadFile returns the file content. A missing file yields an error
	// wrapping ErrNotFound.
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic replaces path with data so readers never observe a
	// partially written file. perm applies when path does not exist yet;
	// an existing file keeps its permission bits.
	WriteFileAtomic(path string, data []byte, perm fs.FileMode) error

	// MarkExecutable adds execute permission wherever read permission is set.
	MarkExecutable(path string) error

	// Exists reports whether path exists.
	Exists(path string) (bool, error)
}
