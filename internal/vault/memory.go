// Package vault archives snapshot content away from the edited machine.
package vault

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"tilecfg/internal/core"
)

// MemoryVault keeps archived content in memory. Safe for concurrent use.
type MemoryVault struct {
	name    string
	mu      sync.RWMutex
	content map[string][]byte
}

func NewMemoryVault(name string) *MemoryVault {
	return &MemoryVault{name: name, content: make(map[string][]byte)}
}

func (m *MemoryVault) PutContent(checksum string, r io.Reader, size int64) error {
	data, err := readExactly(r, size)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.content[checksum] = data
	return nil
}

func (m *MemoryVault) GetContent(checksum string, w io.Writer) error {
	m.mu.RLock()
	data, ok := m.content[checksum]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("content %s: %w", checksum, core.ErrNotFound)
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}
	return nil
}

func (m *MemoryVault) HasContent(checksum string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.content[checksum]
	return ok, nil
}

// ValidateSetup always succeeds for the in-memory vault.
func (m *MemoryVault) ValidateSetup() error {
	return nil
}

// readExactly reads all of r and checks it produced size bytes.
func readExactly(r io.Reader, size int64) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}
	if int64(len(data)) != size {
		return nil, fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}
	return data, nil
}

// Compile-time check that MemoryVault implements core.Vault
var _ core.Vault = (*MemoryVault)(nil)
