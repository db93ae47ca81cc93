// Package config resolves the hoist configuration from defaults, an
// optional config file and HOIST_* environment variables. The resolved
// Config struct is passed explicitly into every core operation so tests
// can run against a temp directory without touching the environment.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/hoist/hoist/internal/paths"
)

// Config carries every path and knob the core operations need.
type Config struct {
	// StateDir is the dotfile directory holding the registry, the hook
	// marker and the history database.
	StateDir string `mapstructure:"state_dir"`
	// TargetDir is the name of the build-output directory scanned inside
	// a project root. Each immediate child is a build profile.
	TargetDir string `mapstructure:"target_dir"`
	// BuildCommand is the build tool wrapped by the shell hook.
	BuildCommand string `mapstructure:"build_command"`
	// History toggles the best-effort event log.
	History bool `mapstructure:"history"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		StateDir:     paths.DefaultStateDir(),
		TargetDir:    "target",
		BuildCommand: "cargo",
		History:      true,
	}
}

// Load resolves configuration: defaults, then an optional config.yaml in
// the hoist config dir, then HOIST_* environment variables.
func Load() (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("state_dir", defaults.StateDir)
	v.SetDefault("target_dir", defaults.TargetDir)
	v.SetDefault("build_command", defaults.BuildCommand)
	v.SetDefault("history", defaults.History)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(paths.DefaultConfigDir())

	v.SetEnvPrefix("HOIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; anything else is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// RegistryPath is the persistent registry document.
func (c *Config) RegistryPath() string { return filepath.Join(c.StateDir, "registry.yaml") }

// HookPath is the zero-content marker written once the shell hook has been
// installed (or declined); its presence skips re-prompting.
func (c *Config) HookPath() string { return filepath.Join(c.StateDir, "hook") }

// HistoryPath is the sqlite event log.
func (c *Config) HistoryPath() string { return filepath.Join(c.StateDir, "history.db") }
