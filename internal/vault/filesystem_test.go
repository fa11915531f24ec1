package vault

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tilecfg/internal/core"
)

func TestNewFileSystemVault(t *testing.T) {
	root := filepath.Join(t.TempDir(), "vault")

	v, err := NewFileSystemVault("test", root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "content")); err != nil {
		t.Errorf("content directory not created: %v", err)
	}
	if v.name != "test" {
		t.Errorf("name = %q, want %q", v.name, "test")
	}

	// reopening an existing vault is fine
	if _, err := NewFileSystemVault("test", root); err != nil {
		t.Errorf("NewFileSystemVault() on existing root error = %v", err)
	}
}

func TestFileSystemVault_PutAndGetContent(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		size    int64
		wantErr bool
	}{
		{name: "matching size", data: ".backup content\n", size: 16},
		{name: "empty", data: "", size: 0},
		{name: "size too small", data: "hello", size: 3, wantErr: true},
		{name: "size too large", data: "hello", size: 50, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewFileSystemVault("test", t.TempDir())
			if err != nil {
				t.Fatal(err)
			}

			err = v.PutContent("sum", strings.NewReader(tt.data), tt.size)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PutContent() error = %v, wantErr %v", err, tt.wantErr)
			}

			ok, err := v.HasContent("sum")
			if err != nil {
				t.Fatalf("HasContent() error = %v", err)
			}
			if ok == tt.wantErr {
				t.Fatalf("HasContent() = %v, want %v", ok, !tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			var buf bytes.Buffer
			if err := v.GetContent("sum", &buf); err != nil {
				t.Fatalf("GetContent() error = %v", err)
			}
			if buf.String() != tt.data {
				t.Errorf("GetContent() = %q, want %q", buf.String(), tt.data)
			}
		})
	}
}

func TestFileSystemVault_PutContent_KeepsExisting(t *testing.T) {
	v, err := NewFileSystemVault("test", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := v.PutContent("sum", strings.NewReader("first"), 5); err != nil {
		t.Fatal(err)
	}
	if err := v.PutContent("sum", strings.NewReader("other"), 5); err != nil {
		t.Fatalf("second PutContent() error = %v", err)
	}

	var buf bytes.Buffer
	if err := v.GetContent("sum", &buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "first" {
		t.Errorf("GetContent() = %q, want %q", buf.String(), "first")
	}
}

func TestFileSystemVault_GetContentNotFound(t *testing.T) {
	v, err := NewFileSystemVault("test", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := v.GetContent("missing", &bytes.Buffer{}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("GetContent() error = %v, want ErrNotFound", err)
	}
}

func TestFileSystemVault_ValidateSetup(t *testing.T) {
	root := t.TempDir()
	v, err := NewFileSystemVault("test", root)
	if err != nil {
		t.Fatal(err)
	}
	if err := v.ValidateSetup(); err != nil {
		t.Errorf("ValidateSetup() error = %v", err)
	}

	if err := os.RemoveAll(filepath.Join(root, "content")); err != nil {
		t.Fatal(err)
	}
	if err := v.ValidateSetup(); err == nil {
		t.Error("ValidateSetup() expected error after content dir removed")
	}
}

func TestFileSystemVault_NoTempFilesLeft(t *testing.T) {
	root := t.TempDir()
	v, err := NewFileSystemVault("test", root)
	if err != nil {
		t.Fatal(err)
	}
	if err := v.PutContent("sum", strings.NewReader("data"), 4); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(filepath.Join(root, "content"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "sum" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("content dir = %v, want [sum]", names)
	}
}
