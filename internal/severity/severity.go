// Package severity defines the configured defect severity levels.
//
// A Table is the ordered list of levels a report knows about. Table order is
// significant: severity groups are listed in that order, and the per-level
// defaults seed the display state of every group.
package severity

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Level describes one named severity category.
type Level struct {
	Name           string `yaml:"name" json:"name"`
	Description    string `yaml:"description" json:"description"`
	AllowedWeights []int  `yaml:"allowed_weights" json:"allowed_weights"`

	// Defaults for the three display flags of this level.
	DefaultIDOnly          bool `yaml:"default_id_only" json:"default_id_only"`
	DefaultShowDescription bool `yaml:"default_show_desc" json:"default_show_desc"`
	DefaultHideAll         bool `yaml:"default_hide_all" json:"default_hide_all"`

	BorderColor string `yaml:"border_color,omitempty" json:"border_color,omitempty"`
	BgColor     string `yaml:"bg_color,omitempty" json:"bg_color,omitempty"`
}

// Tooltip returns the human-readable description shown for this level,
// e.g. "Cosmetic or negligible. (weight=1/2/4)".
func (l Level) Tooltip() string {
	weights := make([]string, len(l.AllowedWeights))
	for i, w := range l.AllowedWeights {
		weights[i] = strconv.Itoa(w)
	}
	return fmt.Sprintf("%s. (weight=%s)", l.Description, strings.Join(weights, "/"))
}

// MaxWeight returns the largest allowed weight, or 0 if none are configured.
func (l Level) MaxWeight() int {
	max := 0
	for _, w := range l.AllowedWeights {
		if w > max {
			max = w
		}
	}
	return max
}

// Allows reports whether weight is one of the level's allowed weights.
func (l Level) Allows(weight int) bool {
	for _, w := range l.AllowedWeights {
		if w == weight {
			return true
		}
	}
	return false
}

// Table is an ordered set of severity levels.
type Table []Level

// Names returns the level names in table order.
func (t Table) Names() []string {
	names := make([]string, len(t))
	for i, l := range t {
		names[i] = l.Name
	}
	return names
}

// Lookup finds a level by exact name.
func (t Table) Lookup(name string) (Level, bool) {
	for _, l := range t {
		if l.Name == name {
			return l, true
		}
	}
	return Level{}, false
}

// Has reports whether name is a configured level.
func (t Table) Has(name string) bool {
	_, ok := t.Lookup(name)
	return ok
}

// Tooltip returns the tooltip text for name, or "" for unknown levels.
func (t Table) Tooltip(name string) string {
	l, ok := t.Lookup(name)
	if !ok {
		return ""
	}
	return l.Tooltip()
}

// Classify returns the level whose weight band contains weight. Bands are
// formed by sorting levels by their maximum allowed weight; a weight belongs
// to the first band whose maximum is >= weight, and anything above every band
// belongs to the heaviest level.
func (t Table) Classify(weight int) (Level, bool) {
	if len(t) == 0 {
		return Level{}, false
	}
	bands := make(Table, len(t))
	copy(bands, t)
	sort.SliceStable(bands, func(i, j int) bool {
		return bands[i].MaxWeight() < bands[j].MaxWeight()
	})
	for _, l := range bands {
		if weight <= l.MaxWeight() {
			return l, true
		}
	}
	return bands[len(bands)-1], true
}

// Validate checks that level names are non-empty and unique.
func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("no severity levels configured")
	}
	seen := make(map[string]bool, len(t))
	for i, l := range t {
		name := strings.TrimSpace(l.Name)
		if name == "" {
			return fmt.Errorf("severity level %d has no name", i)
		}
		if seen[name] {
			return fmt.Errorf("duplicate severity level %q", name)
		}
		seen[name] = true
		for _, w := range l.AllowedWeights {
			if w < 0 {
				return fmt.Errorf("severity level %q has negative weight %d", name, w)
			}
		}
	}
	return nil
}

// Default returns the stock four-level defect severity table.
func Default() Table {
	return Table{
		{
			Name:                   "SAFETY-SIGNIFICANT",
			Description:            "Undetectable error with magnitude that could invalidate safety analyses",
			AllowedWeights:         []int{512},
			DefaultShowDescription: true,
			BorderColor:            "hsla(0, 95%, 75%, 0.5)",
			BgColor:                "hsla(0, 95%, 90%, 0.9)",
		},
		{
			Name:                   "SIGNIFICANT",
			Description:            "Difficult to detect error; results are unreliable for decision-making",
			AllowedWeights:         []int{64, 128, 256},
			DefaultShowDescription: true,
			BorderColor:            "hsla(30, 95%, 75%, 0.5)",
			BgColor:                "hsla(30, 95%, 90%, 0.9)",
		},
		{
			Name:           "MODERATE",
			Description:    "Obvious deviation or performance issue including code crash; low chance of false conclusions",
			AllowedWeights: []int{8, 16, 32},
			BorderColor:    "hsla(50, 95%, 75%, 0.5)",
			BgColor:        "hsla(50, 95%, 90%, 0.9)",
		},
		{
			Name:           "MINOR",
			Description:    "Cosmetic or negligible; does not alter conclusions of analysis",
			AllowedWeights: []int{1, 2, 4},
			DefaultIDOnly:  true,
			DefaultHideAll: true,
			BorderColor:    "hsla(0, 0%, 75%, 0.4)",
			BgColor:        "hsla(0, 0%, 90%, 0.9)",
		},
	}
}
