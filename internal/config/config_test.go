package config

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"tilecfg/internal/core"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := Default("/home/user", "/home/user/.local/share/tilecfg")
	original.AutoSave.DelayMS = 800
	original.Backup.MaxBackups = 7
	original.Reload.HotkeysCommand = []string{"skhd", "-r"}
	original.Archive = VaultConfig{Type: "filesystem", Name: "local", FSVaultRoot: "/backup/vault"}
	original.Database = DatabaseConfig{Type: "memory"}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf, nil)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.Files != original.Files {
		t.Errorf("Files = %+v, want %+v", got.Files, original.Files)
	}
	if got.AutoSave != original.AutoSave {
		t.Errorf("AutoSave = %+v, want %+v", got.AutoSave, original.AutoSave)
	}
	if got.Backup.MaxBackups != 7 {
		t.Errorf("Backup.MaxBackups = %d, want 7", got.Backup.MaxBackups)
	}
	if !slices.Equal(got.Reload.HotkeysCommand, []string{"skhd", "-r"}) {
		t.Errorf("Reload.HotkeysCommand = %v", got.Reload.HotkeysCommand)
	}
	if got.Archive != original.Archive {
		t.Errorf("Archive = %+v, want %+v", got.Archive, original.Archive)
	}
	if got.Database.Type != "memory" {
		t.Errorf("Database.Type = %q, want %q", got.Database.Type, "memory")
	}
	if got.Encryption != original.Encryption {
		t.Errorf("Encryption = %+v, want %+v", got.Encryption, original.Encryption)
	}
}

func TestManager_Read_LayersOverBase(t *testing.T) {
	base := Default("/home/u", "/data")
	input := `
[autosave]
enabled = false

[backup]
max_backups = 5
`
	got, err := (&Manager{}).Read(strings.NewReader(input), base)
	if err != nil {
		t.Fatal(err)
	}
	if got.AutoSave.Enabled {
		t.Error("AutoSave.Enabled = true, want false from file")
	}
	if got.AutoSave.DelayMS != 1500 || !got.AutoSave.BackupOnSave {
		t.Errorf("AutoSave = %+v, want defaults for missing keys", got.AutoSave)
	}
	if got.Backup.MaxBackups != 5 {
		t.Errorf("MaxBackups = %d, want 5", got.Backup.MaxBackups)
	}
	if got.Files.Primary != "/home/u/.yabairc" {
		t.Errorf("Files.Primary = %q", got.Files.Primary)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default("/home/u", "/data/tilecfg")

	if cfg.LogDir != "/data/tilecfg/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/tilecfg/log")
	}
	if cfg.Files.Hotkeys != "/home/u/.skhdrc" {
		t.Errorf("Files.Hotkeys = %q", cfg.Files.Hotkeys)
	}
	if cfg.Encryption.PrivateKeyPath != "/data/tilecfg/keys/tilecfg.key" {
		t.Errorf("Encryption.PrivateKeyPath = %q", cfg.Encryption.PrivateKeyPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	s := cfg.Settings()
	if s != core.DefaultSettings() {
		t.Errorf("Settings() = %+v, want %+v", s, core.DefaultSettings())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{name: "negative delay", modify: func(c *Config) { c.AutoSave.DelayMS = -1 }},
		{name: "zero retention", modify: func(c *Config) { c.Backup.MaxBackups = 0 }},
		{name: "missing file", modify: func(c *Config) { c.Files.Hotkeys = "" }},
		{name: "database type", modify: func(c *Config) { c.Database.Type = "postgres" }},
		{name: "archive type", modify: func(c *Config) { c.Archive.Type = "ftp" }},
		{name: "encryption type", modify: func(c *Config) { c.Encryption.Type = "rot13" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("/h", "/b")
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() error = nil")
			}
		})
	}
}

func TestExpandPaths(t *testing.T) {
	cfg := Default("/h", "/b")
	cfg.Files.Primary = "~/.config/yabai/yabairc"
	cfg.Files.Hotkeys = "/etc/skhdrc"
	cfg.ExpandPaths("/home/u")

	if cfg.Files.Primary != "/home/u/.config/yabai/yabairc" {
		t.Errorf("Primary = %q", cfg.Files.Primary)
	}
	if cfg.Files.Hotkeys != "/etc/skhdrc" {
		t.Errorf("Hotkeys = %q", cfg.Files.Hotkeys)
	}
}

func TestSettings(t *testing.T) {
	cfg := Default("/h", "/b")
	cfg.AutoSave.DelayMS = 250
	cfg.Reload.Enabled = false

	s := cfg.Settings()
	if s.Delay != 250*time.Millisecond || s.Reload {
		t.Errorf("Settings() = %+v", s)
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "tilecfg.toml")

		if err := Init(path, Default(dir, dir)); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "tilecfg.toml")
		cfg := Default(dir, dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		if err := Init(path, cfg); err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		def := Default("/h", "/b")
		got, err := Load(filepath.Join(t.TempDir(), "none.toml"), def)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got != def {
			t.Error("Load() did not return the defaults")
		}
	})

	t.Run("reads existing file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "tilecfg.toml")
		cfg := Default(dir, dir)
		cfg.Database = DatabaseConfig{Type: "memory"}
		if err := Init(path, cfg); err != nil {
			t.Fatal(err)
		}

		got, err := Load(path, Default("/h", "/b"))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got.Database.Type != "memory" || got.BaseDir != dir {
			t.Errorf("Load() = %+v", got)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		os.WriteFile(path, []byte("[autosave\nenabled = "), 0644)
		if _, err := Load(path, Default("/h", "/b")); err == nil {
			t.Error("Load() error = nil for malformed file")
		}
	})
}
