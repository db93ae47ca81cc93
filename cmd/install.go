package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var installPath string

var installCmd = &cobra.Command{
	Use:   "install [binary...]",
	Short: "Register a project's built binaries",
	Long: `Scan the project's build-output directory and merge every executable
found (or only the named ones) into the registry. Re-running with
unchanged build output is a no-op.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := newEngine()
		defer eng.Close()

		res, err := eng.Install(installPath, args)
		if err != nil {
			return err
		}
		if !res.Saved {
			return nil
		}
		if !quiet {
			for _, rec := range res.Discovered {
				fmt.Printf("Registered %s (%s)\n", rec.Name, rec.Location)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
	installCmd.Flags().StringVarP(&installPath, "path", "p", "", "project root (default: enclosing git worktree or current directory)")
}
