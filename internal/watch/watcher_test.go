package watch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"tilecfg/internal/core"
)

type knownContent struct {
	mu   sync.Mutex
	data map[core.Target][]byte
}

func (k *knownContent) set(target core.Target, data string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.data[target] = []byte(data)
}

func (k *knownContent) get(target core.Target) []byte {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.data[target]
}

func newTestWatcher(t *testing.T) (*Watcher, *knownContent, <-chan Change, string) {
	t.Helper()
	dir := t.TempDir()
	known := &knownContent{data: make(map[core.Target][]byte)}
	changes := make(chan Change, 16)

	w, err := New(known.get, func(c Change) { changes <- c }, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w, known, changes, dir
}

func waitChange(t *testing.T, changes <-chan Change) Change {
	t.Helper()
	select {
	case c := <-changes:
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
		return Change{}
	}
}

func TestWatcher_ReportsExternalEdit(t *testing.T) {
	w, known, changes, dir := newTestWatcher(t)
	path := filepath.Join(dir, ".yabairc")
	known.set(core.TargetPrimary, "ours\n")
	if err := os.WriteFile(path, []byte("ours\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := w.Add(core.TargetPrimary, path); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	// rewriting the known content is not external
	if err := os.WriteFile(path, []byte("ours\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("theirs\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c := waitChange(t, changes)
	if c.Target != core.TargetPrimary || c.Removed {
		t.Errorf("change = %+v, want primary edit", c)
	}
}

func TestWatcher_IgnoresUntrackedFiles(t *testing.T) {
	w, known, changes, dir := newTestWatcher(t)
	tracked := filepath.Join(dir, ".skhdrc")
	known.set(core.TargetHotkeys, "a\n")
	if err := os.WriteFile(tracked, []byte("a\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := w.Add(core.TargetHotkeys, tracked); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "other"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(tracked, []byte("b\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c := waitChange(t, changes)
	if c.Target != core.TargetHotkeys {
		t.Errorf("change target = %q, want hotkeys", c.Target)
	}
	if filepath.Base(c.Path) != ".skhdrc" {
		t.Errorf("change path = %q, want .skhdrc", c.Path)
	}
}

func TestWatcher_ReportsRemoval(t *testing.T) {
	w, known, changes, dir := newTestWatcher(t)
	path := filepath.Join(dir, ".yabairc")
	known.set(core.TargetPrimary, "ours\n")
	if err := os.WriteFile(path, []byte("ours\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := w.Add(core.TargetPrimary, path); err != nil {
		t.Fatal(err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	c := waitChange(t, changes)
	if !c.Removed {
		t.Errorf("change = %+v, want removal", c)
	}
}

func TestWatcher_AddAfterClose(t *testing.T) {
	w, _, _, dir := newTestWatcher(t)
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Add(core.TargetPrimary, filepath.Join(dir, ".yabairc")); err != ErrClosed {
		t.Errorf("Add() after Close error = %v, want ErrClosed", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
