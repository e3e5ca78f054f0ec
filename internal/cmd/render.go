package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render <report.html>",
	Short: "Write the report page with a filter applied",
	Long: `Render resolves a filter (see 'defectview view --help') and writes the report
page with the result applied: hidden sections get display: none, the inline
severity listing is rebuilt with its checkbox controls, the sidebar lists the
visible sections, and the product selector marks the selected product.
Severity markers get data-tooltip attributes describing their level.

Examples:
  defectview render report.html -o filtered.html
  defectview render report.html --product UI --hide MODERATE > ui.html`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

var (
	renderOpts   filterOptions
	renderOutput string
)

func init() {
	rootCmd.AddCommand(renderCmd)
	addFilterFlags(renderCmd.Flags(), &renderOpts)
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output file (default: stdout)")
}

func runRender(cmd *cobra.Command, args []string) error {
	rep, cfg, err := openReport(args[0], renderOpts.noCache)
	if err != nil {
		return err
	}

	s := newSession(rep, cfg)
	v, err := applyFilters(s, renderOpts)
	if err != nil {
		return err
	}

	n := rep.Doc.AnnotateSeverities(cfg.Severities)
	rep.Doc.Apply(v, s.Table(), s.Products())
	logger.Debug("applied view",
		zap.Int("annotated", n),
		zap.Int("nav", len(v.Nav)),
		zap.String("product", v.State.SelectedProduct))

	if renderOutput == "" {
		return rep.Doc.Render(cmd.OutOrStdout())
	}

	f, err := os.Create(renderOutput)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := rep.Doc.Render(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	logger.Info("wrote filtered report", zap.String("path", renderOutput))
	return nil
}
