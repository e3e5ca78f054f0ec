// Package filter owns the viewer's filter state: the selected product and the
// three display flags of every severity level.
//
// Setters only record state. Callers recompute the view afterwards, which
// keeps state transitions testable without a rendering surface.
package filter

import (
	"errors"
	"fmt"

	"github.com/agis/defectview/internal/severity"
)

// AllProducts is the product selection that disables product filtering.
const AllProducts = "All"

var (
	// ErrUnknownSeverity is returned when a setter names an unconfigured level.
	ErrUnknownSeverity = errors.New("unknown severity")

	// ErrUnknownProduct is returned when a product is not in the configured list.
	ErrUnknownProduct = errors.New("unknown product")
)

// SeverityDisplayState holds the display flags of one severity level.
// HideAll takes precedence over the other two when rendering but does not
// clear them.
type SeverityDisplayState struct {
	IDOnly          bool `yaml:"id_only" json:"id_only"`
	ShowDescription bool `yaml:"show_description" json:"show_description"`
	HideAll         bool `yaml:"hide_all" json:"hide_all"`
}

// Mode is the effective way a severity group is drawn.
type Mode struct {
	Hidden          bool `yaml:"hidden" json:"hidden"`
	IDOnly          bool `yaml:"id_only" json:"id_only"`
	ShowDescription bool `yaml:"show_description" json:"show_description"`
}

// Mode resolves the display flags into a render mode.
func (s SeverityDisplayState) Mode() Mode {
	if s.HideAll {
		return Mode{Hidden: true}
	}
	return Mode{IDOnly: s.IDOnly, ShowDescription: s.ShowDescription}
}

// FilterState is the complete filter selection of a page session.
type FilterState struct {
	SelectedProduct string                          `yaml:"selected_product" json:"selected_product"`
	Severities      map[string]SeverityDisplayState `yaml:"severities" json:"severities"`
}

// Display returns the flags for a severity. Unknown severities get the zero
// state.
func (f FilterState) Display(name string) SeverityDisplayState {
	return f.Severities[name]
}

// Clone returns a deep copy.
func (f FilterState) Clone() FilterState {
	out := FilterState{
		SelectedProduct: f.SelectedProduct,
		Severities:      make(map[string]SeverityDisplayState, len(f.Severities)),
	}
	for k, v := range f.Severities {
		out.Severities[k] = v
	}
	return out
}

// WithoutHideAll returns a copy in which every HideAll flag is cleared.
func (f FilterState) WithoutHideAll() FilterState {
	out := f.Clone()
	for k, v := range out.Severities {
		v.HideAll = false
		out.Severities[k] = v
	}
	return out
}

// Store is the single owner of a FilterState.
type Store struct {
	state    FilterState
	products []string
}

// NewStore seeds a store from the level defaults with AllProducts selected.
// products, when non-empty, restricts SetSelectedProduct to the listed names
// plus AllProducts.
func NewStore(table severity.Table, products []string) *Store {
	st := FilterState{
		SelectedProduct: AllProducts,
		Severities:      make(map[string]SeverityDisplayState, len(table)),
	}
	for _, l := range table {
		st.Severities[l.Name] = SeverityDisplayState{
			IDOnly:          l.DefaultIDOnly,
			ShowDescription: l.DefaultShowDescription,
			HideAll:         l.DefaultHideAll,
		}
	}
	return &Store{state: st, products: append([]string(nil), products...)}
}

// State returns a snapshot of the current filter state.
func (s *Store) State() FilterState {
	return s.state.Clone()
}

// Products returns the configured product list.
func (s *Store) Products() []string {
	return append([]string(nil), s.products...)
}

// SetIDOnly sets the id-only flag of a severity.
func (s *Store) SetIDOnly(name string, v bool) error {
	return s.update(name, func(d *SeverityDisplayState) { d.IDOnly = v })
}

// SetShowDescription sets the show-description flag of a severity.
func (s *Store) SetShowDescription(name string, v bool) error {
	return s.update(name, func(d *SeverityDisplayState) { d.ShowDescription = v })
}

// SetHideAll sets the hide-all flag of a severity.
func (s *Store) SetHideAll(name string, v bool) error {
	return s.update(name, func(d *SeverityDisplayState) { d.HideAll = v })
}

// SetSelectedProduct selects a product, or AllProducts.
func (s *Store) SetSelectedProduct(product string) error {
	if product != AllProducts && len(s.products) > 0 && !contains(s.products, product) {
		return fmt.Errorf("%w: %q", ErrUnknownProduct, product)
	}
	s.state.SelectedProduct = product
	return nil
}

func (s *Store) update(name string, fn func(*SeverityDisplayState)) error {
	d, ok := s.state.Severities[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSeverity, name)
	}
	fn(&d)
	s.state.Severities[name] = d
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
