package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hoist/hoist/internal/registry"
	"github.com/hoist/hoist/internal/shell"
)

var setupYes bool

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the state directory and install the shell hook",
	Long: `Create the hoist state directory and an empty registry, then offer to
append a shell-profile hook that re-registers build output after every
successful build. The hook question is asked once; a marker file under
the state directory records the answer.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := registry.New(cfg.RegistryPath())
		if err := reg.Setup(); err != nil {
			return err
		}

		if shell.HookInstalled(cfg.HookPath()) {
			logger.Debug("shell hook already installed")
			return nil
		}

		if !setupYes {
			if !stdinIsTTY() {
				logger.Warn("skipping shell hook install on non-interactive stdin; use -y to install")
				return nil
			}
			fmt.Printf("Install a %s wrapper in your shell profile to auto-register build output? [y/N]: ", cfg.BuildCommand)
			reader := bufio.NewReader(os.Stdin)
			ans, _ := reader.ReadString('\n')
			ans = strings.ToLower(strings.TrimSpace(ans))
			if ans != "y" && ans != "yes" {
				// Remember the refusal so the question is not re-asked.
				return shell.WriteMarker(cfg.HookPath())
			}
		}

		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		profile := shell.ProfilePath(home, shell.Detect(os.Getenv("SHELL")))
		if err := shell.InstallHook(profile, cfg.HookPath(), cfg.BuildCommand); err != nil {
			return err
		}
		fmt.Println("Hook installed in", profile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
	setupCmd.Flags().BoolVarP(&setupYes, "yes", "y", false, "install the hook without asking")
}
