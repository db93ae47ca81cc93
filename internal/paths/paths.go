package paths

import (
	"os"
	"path/filepath"
)

// DefaultStateDir is the directory holding the registry, the hook marker
// and the history database. HOIST_HOME overrides it wholesale; otherwise
// it is ~/.hoist (kept as a plain dotfile dir so the registry stays easy
// to find and inspect by hand).
func DefaultStateDir() string {
	if x := os.Getenv("HOIST_HOME"); x != "" {
		return x
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".hoist")
}

func DefaultConfigDir() string {
	if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
		return filepath.Join(x, "hoist")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "hoist")
}

func DefaultRegistryPath() string { return filepath.Join(DefaultStateDir(), "registry.yaml") }
func DefaultHookPath() string     { return filepath.Join(DefaultStateDir(), "hook") }
func DefaultHistoryPath() string  { return filepath.Join(DefaultStateDir(), "history.db") }
