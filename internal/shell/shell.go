// Package shell detects the user's shell family and manages the one-time
// profile hook that re-registers binaries after each build.
package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Family is the user's shell family; only the profile path differs by it.
type Family int

const (
	Bash Family = iota
	Zsh
	Other
)

// Detect classifies a $SHELL value. An empty value defaults to bash.
func Detect(shellPath string) Family {
	switch {
	case strings.Contains(shellPath, "zsh"):
		return Zsh
	case strings.Contains(shellPath, "bash"):
		return Bash
	case shellPath == "":
		return Bash
	default:
		return Other
	}
}

// ProfilePath resolves the profile file the hook is appended to. Everything
// that is not zsh gets .bashrc.
func ProfilePath(home string, f Family) string {
	if f == Zsh {
		return filepath.Join(home, ".zshrc")
	}
	return filepath.Join(home, ".bashrc")
}

// HookSnippet renders the shell function appended to the profile: a wrapper
// around the build command that registers fresh build output after every run.
func HookSnippet(buildCommand string) string {
	return fmt.Sprintf(`
function %[1]s() {
    command %[1]s "$@"
    local status=$?
    if [ $status -eq 0 ] && command -v hoist &>/dev/null; then
        hoist install --quiet
    fi
    return $status
}
`, buildCommand)
}

// HookInstalled reports whether the marker file exists. The marker is the
// only gate; the profile itself is never re-inspected.
func HookInstalled(markerPath string) bool {
	_, err := os.Stat(markerPath)
	return err == nil
}

// InstallHook appends the hook snippet to profilePath and writes the marker
// file. Callers are responsible for any confirmation prompting and for
// checking HookInstalled first.
func InstallHook(profilePath, markerPath, buildCommand string) error {
	f, err := os.OpenFile(profilePath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open shell profile %s: %w", profilePath, err)
	}
	if _, err := f.WriteString(HookSnippet(buildCommand)); err != nil {
		_ = f.Close()
		return fmt.Errorf("append hook to %s: %w", profilePath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", profilePath, err)
	}
	return WriteMarker(markerPath)
}

// WriteMarker records that the hook question has been settled, whether the
// hook was installed or declined.
func WriteMarker(markerPath string) error {
	if err := os.WriteFile(markerPath, nil, 0o644); err != nil {
		return fmt.Errorf("write hook marker: %w", err)
	}
	return nil
}
