package vault

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"

	"tilecfg/internal/core"
	"tilecfg/internal/fs"
)

// FileSystemVault stores archived content as files named by checksum:
//
//	<root>/
//	  content/
//	    <checksum>
type FileSystemVault struct {
	name       string
	root       string
	contentDir string
}

// NewFileSystemVault creates the vault directory structure under root.
func NewFileSystemVault(name, root string) (*FileSystemVault, error) {
	contentDir := filepath.Join(root, "content")
	if err := os.MkdirAll(contentDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create content directory: %w", err)
	}
	return &FileSystemVault{name: name, root: root, contentDir: contentDir}, nil
}

// PutContent stores content under its checksum. Existing content is kept,
// but r is still drained and its size checked.
func (v *FileSystemVault) PutContent(checksum string, r io.Reader, size int64) error {
	data, err := readExactly(r, size)
	if err != nil {
		return err
	}

	dest := filepath.Join(v.contentDir, checksum)
	if _, err := os.Stat(dest); err == nil {
		return nil
	}
	return fs.WriteFileAtomic(dest, data, 0644)
}

func (v *FileSystemVault) GetContent(checksum string, w io.Writer) error {
	data, err := os.ReadFile(filepath.Join(v.contentDir, checksum))
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return fmt.Errorf("content %s: %w", checksum, core.ErrNotFound)
		}
		return fmt.Errorf("failed to open content: %w", err)
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}
	return nil
}

func (v *FileSystemVault) HasContent(checksum string) (bool, error) {
	_, err := os.Stat(filepath.Join(v.contentDir, checksum))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, iofs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("checking content: %w", err)
}

// ValidateSetup verifies that the vault directories exist.
func (v *FileSystemVault) ValidateSetup() error {
	for _, dir := range []string{v.root, v.contentDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("vault directory not accessible: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", dir)
		}
	}
	return nil
}

// Compile-time check that FileSystemVault implements core.Vault
var _ core.Vault = (*FileSystemVault)(nil)
