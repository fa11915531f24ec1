package testutil

import (
	"tilecfg/internal/core"
	"tilecfg/internal/encryption"
	"tilecfg/internal/vault"
)

// NewTestVault creates an in-memory archive vault.
func NewTestVault() core.Vault {
	return vault.NewMemoryVault("test-vault")
}

// NewTestEncryptor creates the deterministic test encryptor.
func NewTestEncryptor() *encryption.TestEncryptor {
	return encryption.NewTestEncryptor()
}
