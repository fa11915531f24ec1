package testutil

import (
	"crypto/sha256"
	"fmt"
)

// ArchiveKey computes the archive key of content without going through the
// session package, so tests can check the key independently.
func ArchiveKey(content string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(content)))
}
