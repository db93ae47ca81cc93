package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var findJSON bool

var findCmd = &cobra.Command{
	Use:   "find <name>",
	Short: "Look up a registered binary by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := newEngine()
		defer eng.Close()

		b, err := eng.Find(args[0])
		if err != nil {
			return err
		}
		if findJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(b)
		}
		fmt.Printf("%s: %s\n", b.Name, b.Location)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(findCmd)
	findCmd.Flags().BoolVar(&findJSON, "json", false, "print JSON")
}
