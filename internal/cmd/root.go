// Package cmd contains all CLI commands for defectview.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agis/defectview/internal/logging"
)

var (
	// Version is the current version of defectview
	Version = "0.1.0"

	// Global flags
	verbose      bool
	configPath   string
	outputFormat string
	logLevel     string

	// logger is replaced in PersistentPreRunE once flags are parsed.
	logger = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "defectview",
	Short: "Filter and inspect HTML defect reports",
	Long: `defectview reads an HTML defect report and computes what it shows under a
filter: which severity groups are listed and how, which issue sections are
visible for the selected product, and what the navigation sidebar contains.

Output Format:
  All commands output YAML by default.
  Use --format to switch to JSON or a coloured text summary.

Global Flags:
  --format     Output format: yaml (default) | json | text
  --log-level  Log level: debug | info | warn (default) | error
  --config     Path to config file (default: .defectview/config.yaml)

Examples:
  defectview extract report.html                  # List issues and problems
  defectview view report.html --product CORE      # Resolve a product filter
  defectview render report.html -o filtered.html  # Write the filtered page
  defectview check report.html                    # Fail on inconsistent weights

See 'defectview <command> --help' for command-specific options.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := logLevel
		if verbose && !cmd.Flags().Changed("log-level") {
			level = "debug"
		}
		l, err := logging.New(level)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: .defectview/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "", "Output format (yaml|json|text); overrides output.format")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
}
