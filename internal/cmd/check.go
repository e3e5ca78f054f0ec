package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agis/defectview/internal/issue"
	"github.com/agis/defectview/internal/output"
	"github.com/agis/defectview/internal/severity"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <report.html>",
	Short: "Check a report for extraction problems and inconsistent weights",
	Long: `Check extracts a report and verifies every issue's weight against its severity:
the weight must be one of the level's allowed weights, and it must classify
into the stated level. Extraction problems are reported too.

Exits non-zero when anything is found.

Examples:
  defectview check report.html
  defectview check report.html --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

var checkNoCache bool

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkNoCache, "no-cache", false, "Do not read or write the extraction cache")
}

func runCheck(cmd *cobra.Command, args []string) error {
	rep, cfg, err := openReport(args[0], checkNoCache)
	if err != nil {
		return err
	}

	out := newCheckOutput(rep, cfg.Severities)
	if err := writeOutput(cmd, cfg, out); err != nil {
		return err
	}
	if !out.Clean() {
		return fmt.Errorf("check failed: %d problems, %d findings", len(out.Problems), len(out.Findings))
	}
	return nil
}

func newCheckOutput(rep *report, table severity.Table) *output.CheckOutput {
	out := &output.CheckOutput{
		Document: rep.Path,
		Issues:   len(rep.Ex.Issues),
		Problems: rep.Ex.Problems,
		Findings: issue.CheckWeights(rep.Ex.Issues, table),
	}
	if out.Problems == nil {
		out.Problems = []issue.Problem{}
	}
	if out.Findings == nil {
		out.Findings = []issue.Finding{}
	}
	return out
}
