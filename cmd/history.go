package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent registry operations",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := newEngine()
		defer eng.Close()

		events, err := eng.Recent(historyLimit)
		if err != nil {
			return err
		}
		if historyJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"events": events})
		}
		if len(events) == 0 {
			fmt.Println("No recorded operations")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tACTION\tNAME\tLOCATION")
		for _, e := range events {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.CreatedAt.Format(time.RFC3339), e.Action, e.Name, e.Location)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum events to show")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print JSON")
}
