package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hoist/hoist/internal/config"
	"github.com/hoist/hoist/internal/engine"
)

var (
	cfg    *config.Config
	logger *log.Logger

	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "hoist [binary...]",
	Short: "Hoist locally built binaries into scope",
	Long: `hoist keeps a registry of locally built binaries and copies them into
the current directory on demand. Run "hoist install" from a project to
register its build output, then "hoist <name>" from anywhere to pull a
binary into scope.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHoist(cmd, args)
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
		switch {
		case quiet:
			logger.SetLevel(log.ErrorLevel)
		case verbose:
			logger.SetLevel(log.DebugLevel)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log errors")
	rootCmd.Flags().BoolVar(&hoistAll, "all", false, "hoist every candidate without prompting")
}

func newEngine() *engine.Engine {
	return engine.New(cfg, logger)
}

func Execute() error {
	// Silence usage and errors to avoid cluttering output with Cobra defaults
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	return rootCmd.Execute()
}
