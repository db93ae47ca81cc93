package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var nukeYes bool

var nukeCmd = &cobra.Command{
	Use:   "nuke",
	Short: "Erase the registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		// refuse to prompt on non-tty unless -y
		if !nukeYes {
			if !stdinIsTTY() {
				return errors.New("refusing to prompt on non-interactive stdin; use -y to confirm")
			}
			fmt.Print("Erase the entire hoist registry? [y/N]: ")
			reader := bufio.NewReader(os.Stdin)
			ans, _ := reader.ReadString('\n')
			ans = strings.ToLower(strings.TrimSpace(ans))
			if ans != "y" && ans != "yes" {
				fmt.Println("aborted")
				return nil
			}
		}

		eng := newEngine()
		defer eng.Close()

		if err := eng.Nuke(); err != nil {
			return err
		}
		fmt.Println("Registry erased")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(nukeCmd)
	nukeCmd.Flags().BoolVarP(&nukeYes, "yes", "y", false, "assume yes")
}
