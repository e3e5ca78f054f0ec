package output

import (
	"github.com/agis/defectview/internal/filter"
	"github.com/agis/defectview/internal/issue"
	"github.com/agis/defectview/internal/resolve"
	"github.com/agis/defectview/internal/sidebar"
)

// ExtractOutput is the result of extracting a report.
type ExtractOutput struct {
	Document string          `yaml:"document" json:"document"`
	Cached   bool            `yaml:"cached" json:"cached"`
	Issues   []issue.Issue   `yaml:"issues" json:"issues"`
	Headings []issue.Heading `yaml:"headings" json:"headings"`
	Problems []issue.Problem `yaml:"problems,omitempty" json:"problems,omitempty"`
}

// NewExtractOutput wraps an extraction.
func NewExtractOutput(document string, ex issue.Extraction, cached bool) *ExtractOutput {
	return &ExtractOutput{
		Document: document,
		Cached:   cached,
		Issues:   ex.Issues,
		Headings: ex.Headings,
		Problems: ex.Problems,
	}
}

// ViewOutput is a resolved view of a report under one filter state.
type ViewOutput struct {
	Document      string             `yaml:"document" json:"document"`
	InlineListing bool               `yaml:"inline_listing" json:"inline_listing"`
	State         filter.FilterState `yaml:"state" json:"state"`
	Groups        []resolve.Group    `yaml:"groups" json:"groups"`
	Visible       []string           `yaml:"visible" json:"visible"`
	Hidden        []string           `yaml:"hidden,omitempty" json:"hidden,omitempty"`
	Nav           []sidebar.NavEntry `yaml:"nav" json:"nav"`
}

// NewViewOutput lays out a resolved view. Visible and Hidden follow the
// order of issues.
func NewViewOutput(document string, inline bool, issues []issue.Issue, state filter.FilterState, res resolve.Result, nav []sidebar.NavEntry) *ViewOutput {
	out := &ViewOutput{
		Document:      document,
		InlineListing: inline,
		State:         state,
		Groups:        res.Groups,
		Visible:       []string{},
		Nav:           nav,
	}
	for _, is := range issues {
		if res.IsVisible(is.ID) {
			out.Visible = append(out.Visible, is.ID)
		} else {
			out.Hidden = append(out.Hidden, is.ID)
		}
	}
	return out
}

// CheckOutput lists everything wrong with a report.
type CheckOutput struct {
	Document string          `yaml:"document" json:"document"`
	Issues   int             `yaml:"issues" json:"issues"`
	Problems []issue.Problem `yaml:"problems" json:"problems"`
	Findings []issue.Finding `yaml:"findings" json:"findings"`
}

// Clean reports whether the check found nothing.
func (c *CheckOutput) Clean() bool {
	return len(c.Problems) == 0 && len(c.Findings) == 0
}

// CacheOutput describes the extraction cache.
type CacheOutput struct {
	Path      string `yaml:"path" json:"path"`
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	Documents int64  `yaml:"documents" json:"documents"`
	Issues    int64  `yaml:"issues" json:"issues"`
	Problems  int64  `yaml:"problems" json:"problems"`
}
