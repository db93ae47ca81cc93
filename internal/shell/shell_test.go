package shell

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		shell string
		want  Family
	}{
		{"/bin/zsh", Zsh},
		{"/usr/bin/zsh", Zsh},
		{"/bin/bash", Bash},
		{"", Bash},
		{"/usr/bin/fish", Other},
	}
	for _, tt := range tests {
		if got := Detect(tt.shell); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.shell, got, tt.want)
		}
	}
}

func TestProfilePath(t *testing.T) {
	if got := ProfilePath("/home/u", Zsh); got != "/home/u/.zshrc" {
		t.Errorf("Expected .zshrc for zsh, got %q", got)
	}
	if got := ProfilePath("/home/u", Bash); got != "/home/u/.bashrc" {
		t.Errorf("Expected .bashrc for bash, got %q", got)
	}
	if got := ProfilePath("/home/u", Other); got != "/home/u/.bashrc" {
		t.Errorf("Expected .bashrc fallback for other shells, got %q", got)
	}
}

func TestHookSnippet(t *testing.T) {
	snippet := HookSnippet("cargo")
	if !strings.Contains(snippet, "function cargo()") {
		t.Errorf("Expected a cargo wrapper function, got %q", snippet)
	}
	if !strings.Contains(snippet, "hoist install --quiet") {
		t.Errorf("Expected the install trigger in the hook, got %q", snippet)
	}
}

func TestInstallHook(t *testing.T) {
	dir := t.TempDir()
	profile := filepath.Join(dir, ".bashrc")
	if err := os.WriteFile(profile, []byte("# existing\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	marker := filepath.Join(dir, "hook")

	if HookInstalled(marker) {
		t.Fatal("Marker must not pre-exist")
	}
	if err := InstallHook(profile, marker, "cargo"); err != nil {
		t.Fatal(err)
	}
	if !HookInstalled(marker) {
		t.Error("Expected the marker after install")
	}

	content, err := os.ReadFile(profile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(content), "# existing\n") {
		t.Error("Existing profile content must be preserved")
	}
	if !strings.Contains(string(content), HookSnippet("cargo")) {
		t.Error("Expected the hook appended to the profile")
	}
}

func TestInstallHook_MissingProfile(t *testing.T) {
	dir := t.TempDir()
	err := InstallHook(filepath.Join(dir, ".bashrc"), filepath.Join(dir, "hook"), "cargo")
	if err == nil {
		t.Fatal("Expected an error for a missing profile file")
	}
	if HookInstalled(filepath.Join(dir, "hook")) {
		t.Error("Marker must not be written when the hook install fails")
	}
}
