package encryption

import (
	"bytes"
	"fmt"
	"io"

	"tilecfg/internal/core"
)

// testMagic marks content "encrypted" by TestEncryptor.
var testMagic = []byte("TCFGENC\n")

// TestEncryptor is a reversible, deterministic stand-in for AgeEncryptor.
// Output differs from the input so archived checksums and bodies can be told
// apart, and any passphrase unlocks it except the one set as Reject.
type TestEncryptor struct {
	Reject     string
	configured bool
}

var _ core.Encryptor = (*TestEncryptor)(nil)

func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{configured: true}
}

func (e *TestEncryptor) Setup(string) error {
	e.configured = true
	return nil
}

func (e *TestEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(testMagic); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("encrypting data: %w", err)
	}
	return nil
}

func (e *TestEncryptor) Unlock(passphrase string) (core.DecryptionContext, error) {
	if e.Reject != "" && passphrase == e.Reject {
		return nil, fmt.Errorf("unlocking private key: incorrect passphrase")
	}
	return testDecryptor{}, nil
}

func (e *TestEncryptor) IsConfigured() bool { return e.configured }

type testDecryptor struct{}

func (testDecryptor) Decrypt(r io.Reader, w io.Writer) error {
	header := make([]byte, len(testMagic))
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	if !bytes.Equal(header, testMagic) {
		return fmt.Errorf("content was not produced by the test encryptor")
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("decrypting data: %w", err)
	}
	return nil
}
