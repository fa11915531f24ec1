// Package fs persists the tracked config files.
package fs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"tilecfg/internal/core"
)

// OSFileStore is the real filesystem implementation of core.FileStore.
type OSFileStore struct{}

// NewOSFileStore creates a file store that operates on the real filesystem.
func NewOSFileStore() *OSFileStore {
	return &OSFileStore{}
}

// ReadFile returns the content of path. A missing file is reported as an
// *core.IOError wrapping core.ErrNotFound.
func (s *OSFileStore) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioError("read", path, err)
	}
	return data, nil
}

// WriteFileAtomic replaces path with data. perm is used for a new file; an
// existing file keeps its permission bits.
func (s *OSFileStore) WriteFileAtomic(path string, data []byte, perm fs.FileMode) error {
	mode, err := FileMode(path, perm)
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, data, mode)
}

// MarkExecutable sets an execute bit for every class that can read path.
func (s *OSFileStore) MarkExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return ioError("chmod", path, err)
	}
	mode := info.Mode().Perm()
	mode |= (mode & 0444) >> 2
	if err := os.Chmod(path, mode); err != nil {
		return ioError("chmod", path, err)
	}
	return nil
}

func (s *OSFileStore) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, ioError("stat", path, err)
}

// WriteFileAtomic writes data to a temp file in the same directory and
// renames it over path, so readers see either the old or the new content.
// The temp file is removed on failure.
func WriteFileAtomic(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return ioError("write", path, err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return ioError("write", path, err)
	}
	if err := tmpFile.Chmod(perm.Perm()); err != nil {
		tmpFile.Close()
		return ioError("write", path, err)
	}
	if err := tmpFile.Close(); err != nil {
		return ioError("write", path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return ioError("write", path, err)
	}

	success = true
	return nil
}

// FileMode returns the permission bits of path, or fallback when it does
// not exist.
func FileMode(path string, fallback fs.FileMode) (fs.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fallback, nil
		}
		return 0, ioError("stat", path, err)
	}
	return info.Mode().Perm(), nil
}

// ioError wraps err, adding core.ErrNotFound to the chain for missing files.
func ioError(op, path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		err = fmt.Errorf("%w: %w", core.ErrNotFound, err)
	}
	return &core.IOError{Op: op, Path: path, Err: err}
}

// Compile-time check that OSFileStore implements core.FileStore
var _ core.FileStore = (*OSFileStore)(nil)
