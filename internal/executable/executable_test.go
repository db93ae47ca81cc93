package executable

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestProbe_Executable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "binary1")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	name, err := Probe(path)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if name != "binary1" {
		t.Errorf("Expected name 'binary1', got %q", name)
	}
}

func TestProbe_PermissionBits(t *testing.T) {
	tests := []struct {
		name string
		mode os.FileMode
		ok   bool
	}{
		{"owner exec", 0o700, true},
		{"group exec", 0o610, true},
		{"other exec", 0o601, true},
		{"no exec bits", 0o644, false},
		{"no bits at all", 0o000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "candidate")
			if err := os.WriteFile(path, []byte("x"), tt.mode); err != nil {
				t.Fatal(err)
			}
			_, err := Probe(path)
			if tt.ok && err != nil {
				t.Errorf("Expected success for mode %o, got %v", tt.mode, err)
			}
			if !tt.ok && !errors.Is(err, ErrNotExecutable) {
				t.Errorf("Expected ErrNotExecutable for mode %o, got %v", tt.mode, err)
			}
		})
	}
}

func TestProbe_Directory(t *testing.T) {
	dir := t.TempDir()
	if _, err := Probe(dir); !errors.Is(err, ErrNotExecutable) {
		t.Errorf("Expected ErrNotExecutable for a directory, got %v", err)
	}
}

func TestProbe_Missing(t *testing.T) {
	_, err := Probe(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("Expected an error for a missing path")
	}
	if errors.Is(err, ErrNotExecutable) {
		t.Error("A missing path should surface the stat error, not ErrNotExecutable")
	}
}
