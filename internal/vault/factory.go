package vault

import (
	"context"
	"fmt"

	"tilecfg/internal/config"
	"tilecfg/internal/core"
)

// NewVaultFromConfig creates the archive vault selected by cfg.Type.
// An empty type means archiving is disabled and yields a nil vault.
func NewVaultFromConfig(ctx context.Context, cfg config.VaultConfig) (core.Vault, error) {
	switch cfg.Type {
	case "":
		return nil, nil
	case "memory":
		return NewMemoryVault(cfg.Name), nil
	case "s3":
		v, err := NewS3Vault(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return v, nil
	case "filesystem":
		if cfg.FSVaultRoot == "" {
			return nil, fmt.Errorf("filesystem vault requires fs_vault_root to be set")
		}
		v, err := NewFileSystemVault(cfg.Name, cfg.FSVaultRoot)
		if err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown vault type: %s", cfg.Type)
	}
}
