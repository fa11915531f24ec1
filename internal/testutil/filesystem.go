package testutil

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"tilecfg/internal/core"
)

// MemoryFile is one file held by MemoryFileStore.
type MemoryFile struct {
	Content []byte
	Mode    fs.FileMode
}

// MemoryFileStore is an in-memory core.FileStore. Writes to paths listed in
// FailWrites return an IOError without touching the stored file.
type MemoryFileStore struct {
	mu         sync.Mutex
	files      map[string]*MemoryFile
	writes     map[string]int
	FailWrites map[string]error
}

func NewMemoryFileStore() *MemoryFileStore {
	return &MemoryFileStore{
		files:      make(map[string]*MemoryFile),
		writes:     make(map[string]int),
		FailWrites: make(map[string]error),
	}
}

// AddFile stores content at path with mode 0644.
func (m *MemoryFileStore) AddFile(path string, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = &MemoryFile{Content: []byte(content), Mode: 0644}
}

// SetMode changes the permission bits of a stored file.
func (m *MemoryFileStore) SetMode(path string, mode fs.FileMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.files[path]; ok {
		f.Mode = mode
	}
}

// File returns the stored file, or nil.
func (m *MemoryFileStore) File(path string) *MemoryFile {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[path]
	if !ok {
		return nil
	}
	cp := *f
	cp.Content = append([]byte(nil), f.Content...)
	return &cp
}

// Writes returns how many successful writes path has received.
func (m *MemoryFileStore) Writes(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes[path]
}

func (m *MemoryFileStore) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[path]
	if !ok {
		return nil, &core.IOError{Op: "read", Path: path, Err: fmt.Errorf("%w: %w", core.ErrNotFound, fs.ErrNotExist)}
	}
	return append([]byte(nil), f.Content...), nil
}

func (m *MemoryFileStore) WriteFileAtomic(path string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.FailWrites[path]; ok {
		if err == nil {
			err = errors.New("injected write failure")
		}
		return &core.IOError{Op: "write", Path: path, Err: err}
	}
	if f, ok := m.files[path]; ok {
		perm = f.Mode
	}
	m.files[path] = &MemoryFile{Content: append([]byte(nil), data...), Mode: perm}
	m.writes[path]++
	return nil
}

func (m *MemoryFileStore) MarkExecutable(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[path]
	if !ok {
		return &core.IOError{Op: "chmod", Path: path, Err: fmt.Errorf("%w: %w", core.ErrNotFound, fs.ErrNotExist)}
	}
	f.Mode |= (f.Mode & 0444) >> 2
	return nil
}

func (m *MemoryFileStore) Exists(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok, nil
}

// Compile-time check
var _ core.FileStore = (*MemoryFileStore)(nil)
