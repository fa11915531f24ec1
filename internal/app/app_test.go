package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tilecfg/internal/core"
	"tilecfg/internal/watch"
)

func newTestApp(t *testing.T) (*App, *Defaults) {
	t.Helper()
	home := t.TempDir()
	d := &Defaults{
		HomeDir:    home,
		ConfigPath: filepath.Join(home, "tilecfg.toml"),
		BaseDir:    filepath.Join(home, "data"),
	}
	cfg := d.Config()
	cfg.Reload.Enabled = false
	cfg.Database.Type = "memory"
	cfg.Archive.Type = "memory"
	cfg.Encryption.Type = "test"

	a, err := New(context.Background(), cfg, "test", "", Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a, d
}

func TestApp_EditAndSave(t *testing.T) {
	a, d := newTestApp(t)
	ctx := context.Background()

	if err := a.Editor().SetSetting("window_gap", "12"); err != nil {
		t.Fatal(err)
	}
	if err := a.Editor().SaveNow(ctx); err != nil {
		t.Fatalf("SaveNow() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(d.HomeDir, ".yabairc"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "yabai -m config window_gap 12\n") {
		t.Errorf(".yabairc:\n%s", data)
	}
	if _, err := os.Stat(filepath.Join(d.HomeDir, ".skhdrc")); !os.IsNotExist(err) {
		t.Errorf("untouched hotkey file was created (stat error %v)", err)
	}

	recs, err := a.Editor().History(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Operation != "commit" {
		t.Errorf("History() = %+v, want one commit", recs)
	}

	if _, err := os.Stat(filepath.Join(d.BaseDir, "log", "tilecfg.log")); err != nil {
		t.Errorf("log file missing: %v", err)
	}
}

func TestApp_Archive(t *testing.T) {
	a, d := newTestApp(t)
	path := filepath.Join(d.HomeDir, ".skhdrc")
	if err := os.WriteFile(path, []byte("alt - h : yabai -m window --focus west\n"), 0644); err != nil {
		t.Fatal(err)
	}

	b, err := a.Editor().CreateBackup(core.TargetHotkeys, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Editor().ArchiveBackup(b); err != nil {
		t.Errorf("ArchiveBackup() error = %v", err)
	}
}

func TestApp_Watch(t *testing.T) {
	a, d := newTestApp(t)
	changes := make(chan watch.Change, 4)

	if err := a.Watch(func(c watch.Change) { changes <- c }); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(d.HomeDir, ".yabairc"), []byte("external\n"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case c := <-changes:
		if c.Target != core.TargetPrimary {
			t.Errorf("change target = %q, want primary", c.Target)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported for external edit")
	}
}

func TestNew_BadConfig(t *testing.T) {
	home := t.TempDir()
	cfg := (&Defaults{HomeDir: home, BaseDir: filepath.Join(home, "data")}).Config()
	cfg.Database.Type = "sqlite"
	cfg.Database.DataDir = ""

	if _, err := New(context.Background(), cfg, "test", "", Options{}); err == nil {
		t.Error("New() expected error for sqlite journal without data_dir")
	}
}
