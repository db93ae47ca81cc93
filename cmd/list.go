package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered binaries",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := newEngine()
		defer eng.Close()

		binaries, err := eng.List()
		if err != nil {
			return err
		}
		if listJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"binaries": binaries})
		}
		if len(binaries) == 0 {
			fmt.Println("No binaries registered")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tLOCATION")
		for _, b := range binaries {
			fmt.Fprintf(w, "%s\t%s\n", b.Name, b.Location)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON")
}
