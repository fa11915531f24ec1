package session

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"tilecfg/internal/core"
)

// ErrArchiveDisabled is returned by archive operations when no vault is configured.
var ErrArchiveDisabled = errors.New("archiving is not configured")

// Checksum is the archive key of content: hex SHA-256 of the plaintext.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ArchiveBackup copies snapshot b into the vault, encrypted when an
// encryptor is configured, and returns its checksum.
func (e *Editor) ArchiveBackup(b *core.BackupInfo) (string, error) {
	if e.vault == nil {
		return "", ErrArchiveDisabled
	}
	d, err := e.documentFor(b.SourcePath)
	if err != nil {
		return "", err
	}

	var checksum string
	err = e.track("archive", d.Target, filepath.Base(b.SnapshotPath), func() (string, error) {
		data, err := e.backups.Read(b)
		if err != nil {
			return "", err
		}
		checksum = Checksum(data)

		exists, err := e.vault.HasContent(checksum)
		if err != nil {
			return "", err
		}
		if exists {
			return checksum + " (already archived)", nil
		}

		body := data
		if e.encryptor != nil {
			if !e.encryptor.IsConfigured() {
				return "", fmt.Errorf("encryption keys missing: run `tilecfg keys init`")
			}
			var buf bytes.Buffer
			if err := e.encryptor.Encrypt(bytes.NewReader(data), &buf); err != nil {
				return "", err
			}
			body = buf.Bytes()
		}
		if err := e.vault.PutContent(checksum, bytes.NewReader(body), int64(len(body))); err != nil {
			return "", err
		}
		return checksum, nil
	})
	if err != nil {
		return "", err
	}
	return checksum, nil
}

// FetchArchive writes archived content to w. passphrase unlocks the private
// key and is ignored when encryption is disabled. The plaintext is verified
// against checksum before anything is written.
func (e *Editor) FetchArchive(checksum, passphrase string, w io.Writer) error {
	if e.vault == nil {
		return ErrArchiveDisabled
	}

	var body bytes.Buffer
	if err := e.vault.GetContent(checksum, &body); err != nil {
		return err
	}

	plain := body.Bytes()
	if e.encryptor != nil {
		dc, err := e.encryptor.Unlock(passphrase)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := dc.Decrypt(&body, &buf); err != nil {
			return err
		}
		plain = buf.Bytes()
	}

	if got := Checksum(plain); got != checksum {
		return fmt.Errorf("archived content does not match checksum %s (got %s)", checksum, got)
	}
	if _, err := w.Write(plain); err != nil {
		return fmt.Errorf("writing archived content: %w", err)
	}
	return nil
}
