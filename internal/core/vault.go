package core

import "io"

// Vault stores archived snapshot content away from the machine being edited.
// Content is addressed by the SHA-256 checksum of its plaintext.
type Vault interface {
	// PutContent stores content identified by its checksum.
	// Storing the same checksum twice is safe.
	// size is the number of bytes that will be read from r.
	PutContent(checksum string, r io.Reader, size int64) error

	// GetContent retrieves content by checksum and writes it to w.
	// Returns an error wrapping ErrNotFound for unknown checksums.
	GetContent(checksum string, w io.Writer) error

	// HasContent reports whether content with the checksum is stored.
	HasContent(checksum string) (bool, error)

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup() error
}
