package output

import (
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/agis/defectview/internal/filter"
	"github.com/agis/defectview/internal/issue"
	"github.com/agis/defectview/internal/resolve"
	"github.com/agis/defectview/internal/sidebar"
)

func disableColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestTruncateWidth(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "short", 10, "short"},
		{"exact", "12345", 5, "12345"},
		{"cut", "1234567890", 5, "1234…"},
		{"wide runes", "日本語テキスト", 5, "日本…"},
		{"width one", "abc", 1, "…"},
		{"zero", "abc", 0, ""},
		{"trims", "  pad  ", 10, "pad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateWidth(tt.in, tt.width); got != tt.want {
				t.Errorf("TruncateWidth(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestTextFormatterView(t *testing.T) {
	disableColor(t)

	out := &ViewOutput{
		Document: "r.html",
		State:    filter.FilterState{SelectedProduct: "CORE"},
		Groups: []resolve.Group{
			{Severity: "MAJOR", Total: 1, Entries: []resolve.Entry{
				{ID: "A", Text: "A very long title that will be cut", Suffix: "  ·  boom (weight=8)"},
			}},
			{Severity: "MINOR", Total: 2, Mode: filter.Mode{Hidden: true}, Entries: []resolve.Entry{}},
		},
		Visible: []string{"A"},
		Hidden:  []string{"B", "C"},
		Nav:     []sidebar.NavEntry{{Anchor: "#A", Text: "A"}},
	}

	text, err := NewTextFormatter(10).Format(out)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}

	for _, want := range []string{
		"product=CORE  visible=1 hidden=2",
		"MAJOR (1)",
		"  A very lo…  ·  boom (weight=8)",
		"MINOR (2)\n  (hidden)",
		"  #A  A",
		"no inline listing",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestTextFormatterCheck(t *testing.T) {
	disableColor(t)
	f := NewTextFormatter(0)

	clean, _ := f.Format(&CheckOutput{Document: "r.html", Issues: 4})
	if !strings.Contains(clean, "r.html: ok (4 issues)") {
		t.Errorf("clean output = %q", clean)
	}

	dirty, _ := f.Format(&CheckOutput{
		Document: "r.html",
		Problems: []issue.Problem{{Kind: issue.UnparsableWeight, Section: 1, IssueID: "B", Detail: "no weight marker"}},
		Findings: []issue.Finding{{IssueID: "A", Message: "weight 3 is not one of [1 2 4]"}},
	})
	for _, want := range []string{
		"1 problems, 1 findings",
		"problem section 1 (B): unparsable_weight: no weight marker",
		"finding A: weight 3 is not one of [1 2 4]",
	} {
		if !strings.Contains(dirty, want) {
			t.Errorf("output missing %q:\n%s", want, dirty)
		}
	}
}

func TestTextFormatterUnsupported(t *testing.T) {
	if _, err := NewTextFormatter(0).Format(struct{}{}); err == nil {
		t.Error("expected error for unsupported type")
	}
}
