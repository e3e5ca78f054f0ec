package cmd

import (
	"github.com/spf13/cobra"

	"github.com/agis/defectview/internal/output"
)

// viewCmd represents the view command
var viewCmd = &cobra.Command{
	Use:   "view <report.html>",
	Short: "Resolve a filter against a report",
	Long: `View computes what the report page shows under a filter: each severity
group with its header count and entries, which issue sections are visible,
and the sidebar navigation.

The filter starts from each severity's configured defaults. Flags then apply
in order: --product, --id-only, --titles, --show-desc, --no-desc, --hide, --show.

Pages without an inline severity listing ignore hide-all flags when deciding
section visibility.

Examples:
  defectview view report.html
  defectview view report.html --product CORE --show MINOR
  defectview view report.html --id-only SIGNIFICANT --no-desc SIGNIFICANT`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

var viewOpts filterOptions

func init() {
	rootCmd.AddCommand(viewCmd)
	addFilterFlags(viewCmd.Flags(), &viewOpts)
}

func runView(cmd *cobra.Command, args []string) error {
	rep, cfg, err := openReport(args[0], viewOpts.noCache)
	if err != nil {
		return err
	}

	s := newSession(rep, cfg)
	v, err := applyFilters(s, viewOpts)
	if err != nil {
		return err
	}

	out := output.NewViewOutput(rep.Path, rep.Doc.HasInlineListing(), s.Issues(), v.State, v.Result, v.Nav)
	return writeOutput(cmd, cfg, out)
}
