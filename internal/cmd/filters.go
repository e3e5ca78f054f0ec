package cmd

import (
	"github.com/spf13/pflag"

	"github.com/agis/defectview/internal/filter"
	"github.com/agis/defectview/internal/session"
)

// filterOptions are the filter flags shared by view and render. Each list
// names severity levels; flags are applied in the order declared here,
// after the product selection.
type filterOptions struct {
	product  string
	idOnly   []string
	titles   []string
	showDesc []string
	noDesc   []string
	hide     []string
	show     []string
	noCache  bool
}

func addFilterFlags(f *pflag.FlagSet, opts *filterOptions) {
	f.StringVar(&opts.product, "product", filter.AllProducts, "Product to filter by")
	f.StringSliceVar(&opts.idOnly, "id-only", nil, "List these severities by issue id")
	f.StringSliceVar(&opts.titles, "titles", nil, "List these severities by title")
	f.StringSliceVar(&opts.showDesc, "show-desc", nil, "Show descriptions for these severities")
	f.StringSliceVar(&opts.noDesc, "no-desc", nil, "Hide descriptions for these severities")
	f.StringSliceVar(&opts.hide, "hide", nil, "Hide these severities entirely")
	f.StringSliceVar(&opts.show, "show", nil, "Un-hide these severities")
	f.BoolVar(&opts.noCache, "no-cache", false, "Do not read or write the extraction cache")
}

// applyFilters drives the session through the flag events and returns the
// final view. The first rejected event aborts with its error.
func applyFilters(s *session.Session, opts filterOptions) (session.View, error) {
	view := s.Refresh()
	var err error

	if opts.product != "" && opts.product != view.State.SelectedProduct {
		if view, err = s.SelectProduct(opts.product); err != nil {
			return view, err
		}
	}

	steps := []struct {
		names []string
		set   func(string, bool) (session.View, error)
		value bool
	}{
		{opts.idOnly, s.SetIDOnly, true},
		{opts.titles, s.SetIDOnly, false},
		{opts.showDesc, s.SetShowDescription, true},
		{opts.noDesc, s.SetShowDescription, false},
		{opts.hide, s.SetHideAll, true},
		{opts.show, s.SetHideAll, false},
	}
	for _, step := range steps {
		for _, name := range step.names {
			if view, err = step.set(name, step.value); err != nil {
				return view, err
			}
		}
	}
	return view, nil
}
