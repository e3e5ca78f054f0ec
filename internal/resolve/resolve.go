// Package resolve computes what a report shows under a given filter state.
//
// Resolve is pure: it reads issues and state and returns plain data. Applying
// that data to a page is left to a rendering adapter.
package resolve

import (
	"fmt"
	"sort"

	"github.com/agis/defectview/internal/filter"
	"github.com/agis/defectview/internal/issue"
	"github.com/agis/defectview/internal/severity"
)

// Entry is one issue as it appears in a severity listing.
type Entry struct {
	ID       string `yaml:"id" json:"id"`
	Anchor   string `yaml:"anchor" json:"anchor"`
	Severity string `yaml:"severity" json:"severity"`
	Weight   int    `yaml:"weight" json:"weight"`

	// Text is the bold label: the issue id in id-only mode, else the title.
	Text string `yaml:"text" json:"text"`
	// Suffix is the appended description and weight, empty unless
	// descriptions are shown.
	Suffix string `yaml:"suffix,omitempty" json:"suffix,omitempty"`
	// Tooltip carries the description when it is not shown inline.
	Tooltip string `yaml:"tooltip,omitempty" json:"tooltip,omitempty"`
}

// Group is the listing of one severity level.
type Group struct {
	Severity string      `yaml:"severity" json:"severity"`
	Tooltip  string      `yaml:"tooltip" json:"tooltip"`
	Mode     filter.Mode `yaml:"mode" json:"mode"`
	// Total counts the product-eligible issues of this severity, whether or
	// not the group is hidden.
	Total   int     `yaml:"total" json:"total"`
	Entries []Entry `yaml:"entries" json:"entries"`
}

// Header is the group heading text, e.g. "MINOR (3)".
func (g Group) Header() string {
	return fmt.Sprintf("%s (%d)", g.Severity, g.Total)
}

// Result is the resolved view of a report.
type Result struct {
	// Groups follow severity table order.
	Groups []Group `yaml:"groups" json:"groups"`
	// SectionVisible holds one entry per issue id.
	SectionVisible map[string]bool `yaml:"section_visible" json:"section_visible"`
}

// Listing returns the entries of a severity group, or nil if the severity is
// not configured.
func (r Result) Listing(name string) []Entry {
	for _, g := range r.Groups {
		if g.Severity == name {
			return g.Entries
		}
	}
	return nil
}

// IsVisible reports whether the section of an issue is shown.
func (r Result) IsVisible(id string) bool {
	return r.SectionVisible[id]
}

// ProductEligible reports whether an issue passes the product filter.
func ProductEligible(is issue.Issue, product string) bool {
	return product == filter.AllProducts || is.HasProduct(product)
}

// Resolve computes the listings and section visibility for issues under state.
// Issues with a severity missing from table take part in product filtering
// and section visibility but are never listed.
func Resolve(issues []issue.Issue, state filter.FilterState, table severity.Table) Result {
	res := Result{
		Groups:         make([]Group, 0, len(table)),
		SectionVisible: make(map[string]bool, len(issues)),
	}

	grouped := make(map[string][]issue.Issue, len(table))
	for _, is := range issues {
		eligible := ProductEligible(is, state.SelectedProduct)
		hidden := state.Display(is.Severity).HideAll
		res.SectionVisible[is.ID] = eligible && !hidden
		if eligible && table.Has(is.Severity) {
			grouped[is.Severity] = append(grouped[is.Severity], is)
		}
	}

	for _, level := range table {
		members := grouped[level.Name]
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].Weight > members[j].Weight
		})

		mode := state.Display(level.Name).Mode()
		g := Group{
			Severity: level.Name,
			Tooltip:  level.Tooltip(),
			Mode:     mode,
			Total:    len(members),
			Entries:  []Entry{},
		}
		if !mode.Hidden {
			for _, is := range members {
				g.Entries = append(g.Entries, newEntry(is, mode))
			}
		}
		res.Groups = append(res.Groups, g)
	}

	return res
}

func newEntry(is issue.Issue, mode filter.Mode) Entry {
	e := Entry{
		ID:       is.ID,
		Anchor:   "#" + is.ID,
		Severity: is.Severity,
		Weight:   is.Weight,
		Text:     is.Title,
	}
	if mode.IDOnly {
		e.Text = is.ID
	}
	if mode.ShowDescription {
		e.Suffix = fmt.Sprintf("  ·  %s (weight=%d)", is.Description, is.Weight)
	} else {
		e.Tooltip = is.Description
	}
	return e
}

// VisibleSectionIDs returns the ids of visible sections in the order of
// issues.
func VisibleSectionIDs(issues []issue.Issue, r Result) []string {
	var ids []string
	for _, is := range issues {
		if r.SectionVisible[is.ID] {
			ids = append(ids, is.ID)
		}
	}
	return ids
}
