package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	t.Run("built-in locations", func(t *testing.T) {
		t.Setenv("TILECFG_CONFIG_PATH", "")
		t.Setenv("TILECFG_HOME", "")

		d, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}
		if want := filepath.Join(home, ".config", "tilecfg.toml"); d.ConfigPath != want {
			t.Errorf("ConfigPath = %q, want %q", d.ConfigPath, want)
		}
		if want := filepath.Join(home, ".local", "share", "tilecfg"); d.BaseDir != want {
			t.Errorf("BaseDir = %q, want %q", d.BaseDir, want)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("TILECFG_CONFIG_PATH", "/tmp/custom.toml")
		t.Setenv("TILECFG_HOME", "/tmp/tilecfg-data")

		d, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}
		if d.ConfigPath != "/tmp/custom.toml" || d.BaseDir != "/tmp/tilecfg-data" {
			t.Errorf("GetDefaults() = %+v", d)
		}
	})
}

func TestLoadConfig(t *testing.T) {
	home := t.TempDir()
	d := &Defaults{
		HomeDir:    home,
		ConfigPath: filepath.Join(home, "tilecfg.toml"),
		BaseDir:    filepath.Join(home, "data"),
	}

	t.Run("missing file", func(t *testing.T) {
		cfg, err := d.LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Files.Primary != filepath.Join(home, ".yabairc") {
			t.Errorf("Files.Primary = %q", cfg.Files.Primary)
		}
	})

	t.Run("tilde paths", func(t *testing.T) {
		content := "[files]\nprimary = \"~/.config/yabai/yabairc\"\nhotkeys = \"~/.config/skhd/skhdrc\"\n"
		if err := os.WriteFile(d.ConfigPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		cfg, err := d.LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if want := filepath.Join(home, ".config", "yabai", "yabairc"); cfg.Files.Primary != want {
			t.Errorf("Files.Primary = %q, want %q", cfg.Files.Primary, want)
		}
		if cfg.Backup.MaxBackups != 20 {
			t.Errorf("Backup.MaxBackups = %d, want default 20", cfg.Backup.MaxBackups)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if err := os.WriteFile(d.ConfigPath, []byte("[backup]\nmax_backups = 0\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := d.LoadConfig(); err == nil {
			t.Error("LoadConfig() expected validation error")
		}
	})
}
