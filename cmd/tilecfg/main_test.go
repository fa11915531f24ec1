package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"testing"
)

type testEnv struct {
	home string
}

// newTestEnv points tilecfg at a temporary home with reloading disabled and
// a filesystem archive.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TILECFG_HOME", filepath.Join(home, "data"))
	cfgPath := filepath.Join(home, "tilecfg.toml")
	t.Setenv("TILECFG_CONFIG_PATH", cfgPath)

	cfg := `[reload]
enabled = false

[archive]
type = "filesystem"
name = "test"
fs_vault_root = "` + filepath.Join(home, "vault") + `"

[encryption]
type = "none"
`
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	return &testEnv{home: home}
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(&runner{})
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.Execute()
	return out.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("tilecfg %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func (e *testEnv) file(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.home, name))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestSetAndGet(t *testing.T) {
	e := newTestEnv(t)

	e.mustRun(t, "set", "window_gap", "12")
	if got := e.file(t, ".yabairc"); !strings.Contains(got, "\nyabai -m config window_gap 12\n") {
		t.Errorf(".yabairc:\n%s", got)
	}
	if got := e.mustRun(t, "get", "window_gap"); got != "12\n" {
		t.Errorf("get window_gap = %q, want %q", got, "12\n")
	}

	if _, err := e.run(t, "set", "window_gap", "-3"); err == nil {
		t.Error("set window_gap -3: expected validation error")
	}
	if _, err := e.run(t, "set", "no_such_key", "1"); err == nil {
		t.Error("set no_such_key: expected error")
	}
}

func TestRules(t *testing.T) {
	e := newTestEnv(t)

	out := e.mustRun(t, "rule", "add", "--app", "^Finder$", "--manage", "off")
	m := regexp.MustCompile(`Added (\S+):`).FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("rule add output = %q", out)
	}
	id := m[1]
	if got := e.file(t, ".yabairc"); !strings.Contains(got, `app="^Finder$" manage=off`) {
		t.Errorf(".yabairc missing rule:\n%s", got)
	}

	if out := e.mustRun(t, "rule", "list"); !strings.Contains(out, id) {
		t.Errorf("rule list = %q, want %s", out, id)
	}
	if out := e.mustRun(t, "rule", "toggle", id); out != id+" off\n" {
		t.Errorf("rule toggle = %q", out)
	}
	if _, err := e.run(t, "rule", "add"); err == nil {
		t.Error("rule add without a pattern: expected error")
	}
	if _, err := e.run(t, "rule", "add", "--app", "x", "--manage", "maybe"); err == nil {
		t.Error("rule add --manage maybe: expected error")
	}
}

func TestSignals(t *testing.T) {
	e := newTestEnv(t)

	e.mustRun(t, "signal", "add", "window_focused", "sketchybar --trigger window_focus")
	if got := e.file(t, ".yabairc"); !strings.Contains(got, `yabai -m signal --add event=window_focused action="sketchybar --trigger window_focus"`) {
		t.Errorf(".yabairc missing signal:\n%s", got)
	}
	if _, err := e.run(t, "signal", "add", "not_an_event", "true"); err == nil {
		t.Error("signal add with unknown event: expected error")
	}
}

func TestHotkeys(t *testing.T) {
	e := newTestEnv(t)

	out := e.mustRun(t, "hotkey", "add", "alt - h", "yabai -m window --focus west")
	if !strings.Contains(out, "[focus]") {
		t.Errorf("hotkey add output = %q, want inferred focus category", out)
	}
	if got := e.file(t, ".skhdrc"); !strings.Contains(got, "alt - h : yabai -m window --focus west\n") {
		t.Errorf(".skhdrc:\n%s", got)
	}
	if _, err := os.Stat(filepath.Join(e.home, ".yabairc")); !os.IsNotExist(err) {
		t.Errorf("untouched .yabairc was written (stat error %v)", err)
	}

	if out := e.mustRun(t, "hotkey", "conflicts"); out != "No conflicts.\n" {
		t.Errorf("conflicts = %q", out)
	}
	e.mustRun(t, "hotkey", "add", "alt - h", "open -a Terminal")
	if out := e.mustRun(t, "hotkey", "conflicts"); !strings.Contains(out, "shortcut-1") || !strings.Contains(out, "shortcut-2") {
		t.Errorf("conflicts = %q", out)
	}

	e.mustRun(t, "hotkey", "category", "shortcut-2", "layout")
	if out := e.mustRun(t, "hotkey", "list", "--category", "layout"); !strings.Contains(out, "open -a Terminal") || strings.Contains(out, "--focus west") {
		t.Errorf("hotkey list --category layout = %q", out)
	}
}

func TestBackupArchiveFetch(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun(t, "set", "window_gap", "12")

	if out := e.mustRun(t, "backup", "create", "primary", "-d", "before experiments"); !strings.Contains(out, ".yabairc.backup.") {
		t.Errorf("backup create = %q", out)
	}
	if out := e.mustRun(t, "backup", "list"); !strings.Contains(out, "before experiments") {
		t.Errorf("backup list = %q", out)
	}
	if out := e.mustRun(t, "backup", "diff", "primary", "1"); out != "No differences.\n" {
		t.Errorf("backup diff = %q", out)
	}

	out := e.mustRun(t, "backup", "archive", "primary", "1")
	m := regexp.MustCompile(`as ([0-9a-f]{64})`).FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("backup archive = %q", out)
	}
	fetched := e.mustRun(t, "backup", "fetch", m[1])
	if fetched != e.file(t, ".yabairc") {
		t.Errorf("fetched content differs from snapshot:\n%s", fetched)
	}

	dest := filepath.Join(e.home, "restored")
	e.mustRun(t, "backup", "fetch", m[1], "-o", dest)
	if _, err := e.run(t, "backup", "fetch", m[1], "-o", dest); err == nil {
		t.Error("fetch over an existing file: expected error")
	}
}

func TestPendingDiffAndHistory(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun(t, "set", "window_gap", "12")

	if out := e.mustRun(t, "backup", "diff", "primary"); out != "No differences.\n" {
		t.Errorf("pending diff = %q", out)
	}
	if out := e.mustRun(t, "history"); !strings.Contains(out, "commit") {
		t.Errorf("history = %q", out)
	}
	if out := e.mustRun(t, "status"); !strings.Contains(out, "primary") || !strings.Contains(out, "hotkeys") {
		t.Errorf("status = %q", out)
	}
}

func TestExport(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun(t, "set", "window_gap", "12")

	out := e.mustRun(t, "export")
	for _, want := range []string{"primary:", "window_gap: 12", "hotkeys:"} {
		if !strings.Contains(out, want) {
			t.Errorf("export missing %q:\n%s", want, out)
		}
	}
	if _, err := e.run(t, "export", "--format", "json"); err == nil {
		t.Error("export --format json: expected error")
	}
}

func TestShowUnknownTarget(t *testing.T) {
	e := newTestEnv(t)
	if _, err := e.run(t, "show", "sway"); err == nil {
		t.Error("show sway: expected error")
	}
	if out := e.mustRun(t, "show", "hotkeys"); !strings.HasPrefix(out, "# Generated by tilecfg") {
		t.Errorf("show hotkeys = %q", out)
	}
}

func TestSplitWords(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{line: "", want: nil},
		{line: "  set  window_gap 12 ", want: []string{"set", "window_gap", "12"}},
		{line: `hotkey add "alt - h" 'yabai -m window --focus west'`, want: []string{"hotkey", "add", "alt - h", "yabai -m window --focus west"}},
		{line: `signal add window_focused "echo \"hi\""`, want: []string{"signal", "add", "window_focused", `echo "hi"`}},
		{line: `a\ b c`, want: []string{"a b", "c"}},
		{line: `say ''`, want: []string{"say", ""}},
		{line: `"open`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := splitWords(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("splitWords() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitWords() = %q, want %q", got, tt.want)
			}
		})
	}
}
