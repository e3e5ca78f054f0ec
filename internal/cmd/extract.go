package cmd

import (
	"github.com/spf13/cobra"

	"github.com/agis/defectview/internal/output"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <report.html>",
	Short: "List the issues, headings and problems of a report",
	Long: `Extract reads every issue section of a report page and prints the issues in
document order, the heading index used for the sidebar, and any per-section
problems (sections without an id, unknown severities, unparsable weights).

Problems never stop extraction; they are reported alongside the issues.

Examples:
  defectview extract report.html
  defectview extract report.html --format text`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

var extractNoCache bool

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().BoolVar(&extractNoCache, "no-cache", false, "Do not read or write the extraction cache")
}

func runExtract(cmd *cobra.Command, args []string) error {
	rep, cfg, err := openReport(args[0], extractNoCache)
	if err != nil {
		return err
	}
	return writeOutput(cmd, cfg, output.NewExtractOutput(rep.Path, rep.Ex, rep.Cached))
}
