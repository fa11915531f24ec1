package app

import (
	"fmt"
	"os"
	"path/filepath"

	"tilecfg/internal/config"
)

// Defaults are the locations used before any config file is read.
type Defaults struct {
	HomeDir    string
	ConfigPath string
	BaseDir    string
}

// GetDefaults resolves default locations, checking environment variables first:
//   - TILECFG_CONFIG_PATH: config file (default ~/.config/tilecfg.toml)
//   - TILECFG_HOME: data directory for logs, journal and keys (default ~/.local/share/tilecfg)
func GetDefaults() (*Defaults, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine home directory: %w", err)
	}

	d := &Defaults{
		HomeDir:    homeDir,
		ConfigPath: filepath.Join(homeDir, ".config", "tilecfg.toml"),
		BaseDir:    filepath.Join(homeDir, ".local", "share", "tilecfg"),
	}
	if path := os.Getenv("TILECFG_CONFIG_PATH"); path != "" {
		d.ConfigPath = path
	}
	if path := os.Getenv("TILECFG_HOME"); path != "" {
		d.BaseDir = path
	}
	return d, nil
}

// Config returns the built-in configuration for these locations.
func (d *Defaults) Config() *config.Config {
	return config.Default(d.HomeDir, d.BaseDir)
}

// LoadConfig reads the config file layered over the built-in defaults,
// expands "~/" in the tracked paths and validates the result.
func (d *Defaults) LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(d.ConfigPath, d.Config())
	if err != nil {
		return nil, err
	}
	cfg.ExpandPaths(d.HomeDir)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", d.ConfigPath, err)
	}
	return cfg, nil
}
