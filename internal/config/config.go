// Package config reads and writes the tilecfg application config (TOML).
package config

import (
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"tilecfg/internal/core"
	"tilecfg/internal/reload"
)

// Config is the application configuration.
type Config struct {
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	Files      FilesConfig      `toml:"files"`
	AutoSave   AutoSaveConfig   `toml:"autosave"`
	Backup     BackupConfig     `toml:"backup"`
	Reload     ReloadConfig     `toml:"reload"`
	Database   DatabaseConfig   `toml:"database"`
	Archive    VaultConfig      `toml:"archive"`
	Encryption EncryptionConfig `toml:"encryption"`
}

// FilesConfig locates the two tracked config files. A leading "~/" is
// expanded to the home directory.
type FilesConfig struct {
	Primary string `toml:"primary"`
	Hotkeys string `toml:"hotkeys"`
}

type AutoSaveConfig struct {
	Enabled      bool `toml:"enabled"`
	DelayMS      int  `toml:"delay_ms"`
	BackupOnSave bool `toml:"backup_on_save"`
}

type BackupConfig struct {
	MaxBackups int `toml:"max_backups"`
}

// ReloadConfig holds the commands run after a successful write. An empty
// command disables reloading for that file.
type ReloadConfig struct {
	Enabled        bool     `toml:"enabled"`
	PrimaryCommand []string `toml:"primary_command"`
	HotkeysCommand []string `toml:"hotkeys_command"`
}

// DatabaseConfig represents configuration for the operation journal.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite", "memory" or "none"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// VaultConfig represents configuration for the snapshot archive.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
// An empty Type disables archiving.
type VaultConfig struct {
	Type string `toml:"type"` // "memory", "s3", or "filesystem"
	Name string `toml:"name"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket string `toml:"s3_bucket,omitempty"`
	S3Prefix string `toml:"s3_prefix,omitempty"`
	S3Region string `toml:"s3_region,omitempty"`
	// S3Endpoint points at an S3-compatible service and switches to
	// path-style addressing.
	S3Endpoint        string `toml:"s3_endpoint,omitempty"`
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSVaultRoot string `toml:"fs_vault_root,omitempty"`
}

// EncryptionConfig holds paths to the age key pair used for archived snapshots.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "age" (default), "test" or "none"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// Default returns the configuration used when no config file exists.
func Default(homeDir, baseDir string) *Config {
	return &Config{
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Files: FilesConfig{
			Primary: filepath.Join(homeDir, ".yabairc"),
			Hotkeys: filepath.Join(homeDir, ".skhdrc"),
		},
		AutoSave: AutoSaveConfig{
			Enabled:      true,
			DelayMS:      int(core.DefaultAutoSaveDelay / time.Millisecond),
			BackupOnSave: true,
		},
		Backup: BackupConfig{MaxBackups: core.DefaultMaxBackups},
		Reload: ReloadConfig{
			Enabled:        true,
			PrimaryCommand: reload.DefaultPrimaryCommand,
			HotkeysCommand: reload.DefaultHotkeysCommand,
		},
		Database: DatabaseConfig{Type: "sqlite", DataDir: filepath.Join(baseDir, "db")},
		Encryption: EncryptionConfig{
			Type:           "age",
			PublicKeyPath:  filepath.Join(baseDir, "keys", "tilecfg.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "tilecfg.key"),
		},
	}
}

// Settings converts the engine-related sections into core.Settings.
func (c *Config) Settings() core.Settings {
	return core.Settings{
		AutoSave:     c.AutoSave.Enabled,
		Delay:        time.Duration(c.AutoSave.DelayMS) * time.Millisecond,
		BackupOnSave: c.AutoSave.BackupOnSave,
		MaxBackups:   c.Backup.MaxBackups,
		Reload:       c.Reload.Enabled,
	}
}

// Validate checks values the decoder cannot.
func (c *Config) Validate() error {
	var errs []error
	if c.Files.Primary == "" || c.Files.Hotkeys == "" {
		errs = append(errs, errors.New("files.primary and files.hotkeys are required"))
	}
	if c.AutoSave.DelayMS < 0 {
		errs = append(errs, fmt.Errorf("autosave.delay_ms must not be negative, got %d", c.AutoSave.DelayMS))
	}
	if c.Backup.MaxBackups < 1 {
		errs = append(errs, fmt.Errorf("backup.max_backups must be at least 1, got %d", c.Backup.MaxBackups))
	}
	switch c.Database.Type {
	case "sqlite", "memory", "none":
	default:
		errs = append(errs, fmt.Errorf("unknown database type: %s", c.Database.Type))
	}
	switch c.Archive.Type {
	case "", "memory", "filesystem", "s3":
	default:
		errs = append(errs, fmt.Errorf("unknown archive type: %s", c.Archive.Type))
	}
	switch c.Encryption.Type {
	case "", "age", "test", "none":
	default:
		errs = append(errs, fmt.Errorf("unknown encryption type: %s", c.Encryption.Type))
	}
	return errors.Join(errs...)
}

// ExpandPaths resolves "~/" in the tracked file paths against homeDir.
func (c *Config) ExpandPaths(homeDir string) {
	c.Files.Primary = expandHome(c.Files.Primary, homeDir)
	c.Files.Hotkeys = expandHome(c.Files.Hotkeys, homeDir)
}

func expandHome(path, homeDir string) string {
	if path == "~" {
		return homeDir
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader. Keys missing from the
// input keep the values already in base; a nil base starts empty.
func (m *Manager) Read(r io.Reader, base *Config) (*Config, error) {
	var cfg Config
	if base != nil {
		cfg = *base
	}
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from path, layered over base.
func ReadFromFile(path string, base *Config) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f, base)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Load reads path layered over def, or returns def when the file does not
// exist, so tilecfg works before "config init".
func Load(path string, def *Config) (*Config, error) {
	cfg, err := ReadFromFile(path, def)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return def, nil
		}
		return nil, err
	}
	return cfg, nil
}

func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes cfg to a new config file at path. An existing file is never
// overwritten.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
