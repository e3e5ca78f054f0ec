// Package session ties the filter store, resolver and sidebar together for one
// open report. Every event first mutates state, then resolves, then syncs the
// sidebar, and returns the resulting view.
package session

import (
	"github.com/agis/defectview/internal/filter"
	"github.com/agis/defectview/internal/issue"
	"github.com/agis/defectview/internal/resolve"
	"github.com/agis/defectview/internal/severity"
	"github.com/agis/defectview/internal/sidebar"
)

// View is everything a renderer needs after one event.
type View struct {
	State  filter.FilterState `yaml:"state" json:"state"`
	Result resolve.Result     `yaml:"result" json:"result"`
	Nav    []sidebar.NavEntry `yaml:"nav" json:"nav"`
}

// Options configures a session.
type Options struct {
	Table    severity.Table
	Products []string

	// InlineListing reports whether the page has the inline listing that
	// carries the per-severity controls. Without it, hide-all flags cannot be
	// toggled by the viewer, so they are ignored when resolving.
	InlineListing bool
}

// Session is a single-user page session. It is not safe for concurrent use;
// events are expected to run to completion one at a time.
type Session struct {
	table    severity.Table
	issues   []issue.Issue
	headings []issue.Heading
	store    *filter.Store
	inline   bool
}

// New starts a session over an extraction.
func New(ex issue.Extraction, opts Options) *Session {
	return &Session{
		table:    opts.Table,
		issues:   ex.Issues,
		headings: ex.Headings,
		store:    filter.NewStore(opts.Table, opts.Products),
		inline:   opts.InlineListing,
	}
}

// Issues returns the session's issue list.
func (s *Session) Issues() []issue.Issue {
	return s.issues
}

// Table returns the severity table.
func (s *Session) Table() severity.Table {
	return s.table
}

// Products returns the configured product list.
func (s *Session) Products() []string {
	return s.store.Products()
}

// State returns the stored filter state.
func (s *Session) State() filter.FilterState {
	return s.store.State()
}

// Refresh recomputes the view from the current state.
func (s *Session) Refresh() View {
	stored := s.store.State()
	effective := stored
	if !s.inline {
		effective = stored.WithoutHideAll()
	}
	res := resolve.Resolve(s.issues, effective, s.table)
	return View{
		State:  stored,
		Result: res,
		Nav:    sidebar.Sync(res.SectionVisible, s.headings),
	}
}

// SetIDOnly handles the id-only checkbox of a severity.
func (s *Session) SetIDOnly(name string, v bool) (View, error) {
	return s.apply(func() error { return s.store.SetIDOnly(name, v) })
}

// SetShowDescription handles the include-description checkbox of a severity.
func (s *Session) SetShowDescription(name string, v bool) (View, error) {
	return s.apply(func() error { return s.store.SetShowDescription(name, v) })
}

// SetHideAll handles the hide-all checkbox of a severity.
func (s *Session) SetHideAll(name string, v bool) (View, error) {
	return s.apply(func() error { return s.store.SetHideAll(name, v) })
}

// SelectProduct handles a product dropdown change.
func (s *Session) SelectProduct(product string) (View, error) {
	return s.apply(func() error { return s.store.SetSelectedProduct(product) })
}

func (s *Session) apply(mutate func() error) (View, error) {
	if err := mutate(); err != nil {
		return View{}, err
	}
	return s.Refresh(), nil
}
