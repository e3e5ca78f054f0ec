package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/agis/defectview/internal/issue"
	"github.com/agis/defectview/internal/resolve"
)

// DefaultTitleWidth is the title width used when none is configured.
const DefaultTitleWidth = 60

// Severity groups are coloured by rank, most severe first. Ranks past the end
// reuse the last colour.
var groupColors = []*color.Color{
	color.New(color.FgRed, color.Bold),
	color.New(color.FgRed),
	color.New(color.FgYellow),
	color.New(color.FgHiBlack),
}

var (
	dimText     = color.New(color.FgHiBlack).SprintFunc()
	warnText    = color.New(color.FgYellow).SprintFunc()
	okText      = color.New(color.FgGreen).SprintFunc()
	problemText = color.New(color.FgRed).SprintFunc()
)

// TextFormatter writes a terminal summary. Colours follow color.NoColor.
type TextFormatter struct {
	// TitleWidth truncates titles to this many terminal cells; 0 disables it.
	TitleWidth int
}

// NewTextFormatter creates a text formatter.
func NewTextFormatter(titleWidth int) *TextFormatter {
	return &TextFormatter{TitleWidth: titleWidth}
}

// Format formats a result as text.
func (f *TextFormatter) Format(v interface{}) (string, error) {
	return formatString(f, v)
}

// FormatToWriter writes text output to a writer.
func (f *TextFormatter) FormatToWriter(w io.Writer, v interface{}) error {
	switch out := v.(type) {
	case *ExtractOutput:
		f.writeExtract(w, out)
	case *ViewOutput:
		f.writeView(w, out)
	case *CheckOutput:
		f.writeCheck(w, out)
	case *CacheOutput:
		writeCache(w, out)
	default:
		return fmt.Errorf("text formatter does not support type %T", v)
	}
	return nil
}

func (f *TextFormatter) writeExtract(w io.Writer, out *ExtractOutput) {
	source := "parsed"
	if out.Cached {
		source = "cached"
	}
	fmt.Fprintf(w, "%s: %d issues (%s)\n", out.Document, len(out.Issues), dimText(source))
	for _, is := range out.Issues {
		fmt.Fprintf(w, "  %-12s %-20s %5d  %s", is.ID, is.Severity, is.Weight, f.title(is.Title))
		if len(is.Products) > 0 {
			fmt.Fprintf(w, "  %s", dimText("["+strings.Join(is.Products, issue.ProductSeparator)+"]"))
		}
		fmt.Fprintln(w)
	}
	writeProblems(w, out.Problems)
}

func (f *TextFormatter) writeView(w io.Writer, out *ViewOutput) {
	fmt.Fprintf(w, "%s  product=%s  visible=%d hidden=%d\n",
		out.Document, out.State.SelectedProduct, len(out.Visible), len(out.Hidden))
	if !out.InlineListing {
		fmt.Fprintln(w, warnText("no inline listing: hide-all flags are not applied"))
	}

	for i, g := range out.Groups {
		fmt.Fprintln(w)
		fmt.Fprintln(w, groupColor(i).Sprint(g.Header()))
		if g.Mode.Hidden {
			fmt.Fprintf(w, "  %s\n", dimText("(hidden)"))
			continue
		}
		for _, e := range g.Entries {
			f.writeEntry(w, e)
		}
	}

	if len(out.Nav) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Sidebar:")
		for _, n := range out.Nav {
			fmt.Fprintf(w, "  %s  %s\n", n.Anchor, f.title(n.Text))
		}
	}
}

func (f *TextFormatter) writeEntry(w io.Writer, e resolve.Entry) {
	fmt.Fprintf(w, "  %s", f.title(e.Text))
	if e.Suffix != "" {
		fmt.Fprint(w, dimText(e.Suffix))
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) writeCheck(w io.Writer, out *CheckOutput) {
	if out.Clean() {
		fmt.Fprintf(w, "%s: %s (%d issues)\n", out.Document, okText("ok"), out.Issues)
		return
	}
	fmt.Fprintf(w, "%s: %d problems, %d findings (%d issues)\n",
		out.Document, len(out.Problems), len(out.Findings), out.Issues)
	writeProblems(w, out.Problems)
	for _, fd := range out.Findings {
		fmt.Fprintf(w, "  %s %s: %s\n", warnText("finding"), fd.IssueID, fd.Message)
	}
}

func writeProblems(w io.Writer, problems []issue.Problem) {
	for _, p := range problems {
		fmt.Fprintf(w, "  %s %s\n", problemText("problem"), p)
	}
}

func writeCache(w io.Writer, out *CacheOutput) {
	state := okText("enabled")
	if !out.Enabled {
		state = warnText("disabled")
	}
	fmt.Fprintf(w, "Cache: %s (%s)\n", out.Path, state)
	fmt.Fprintf(w, "  documents: %d\n  issues:    %d\n  problems:  %d\n", out.Documents, out.Issues, out.Problems)
}

func groupColor(rank int) *color.Color {
	if rank >= len(groupColors) {
		rank = len(groupColors) - 1
	}
	return groupColors[rank]
}

func (f *TextFormatter) title(s string) string {
	if f.TitleWidth <= 0 {
		return s
	}
	return TruncateWidth(s, f.TitleWidth)
}

// TruncateWidth shortens s to at most width terminal cells, marking the cut
// with an ellipsis.
func TruncateWidth(s string, width int) string {
	s = strings.TrimSpace(s)
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	limit := width - 1
	var b strings.Builder
	used := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			rw = 1
		}
		if used+rw > limit {
			break
		}
		b.WriteRune(r)
		used += rw
	}
	return b.String() + "…"
}
