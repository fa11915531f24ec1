package encryption

import (
	"fmt"

	"tilecfg/internal/config"
	"tilecfg/internal/core"
)

// NewEncryptorFromConfig returns the configured encryptor, or nil when
// archived snapshots are stored unencrypted ("none").
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (core.Encryptor, error) {
	switch cfg.Type {
	case "age", "":
		return NewAgeEncryptor(cfg), nil
	case "test":
		return NewTestEncryptor(), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}
