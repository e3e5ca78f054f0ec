// Package sidebar derives navigation entries from the visible sections.
package sidebar

import (
	"github.com/agis/defectview/internal/issue"
)

// NavEntry is one sidebar link.
type NavEntry struct {
	Anchor string `yaml:"anchor" json:"anchor"`
	Text   string `yaml:"text" json:"text"`
	Class  string `yaml:"class,omitempty" json:"class,omitempty"`
}

// Sync returns one entry per visible heading, in document order. It must be
// called again after every resolve.
func Sync(visible map[string]bool, headings []issue.Heading) []NavEntry {
	entries := make([]NavEntry, 0, len(headings))
	for _, h := range headings {
		if h.ID == "" || !visible[h.ID] {
			continue
		}
		entries = append(entries, NavEntry{
			Anchor: "#" + h.ID,
			Text:   h.Text,
			Class:  h.Class,
		})
	}
	return entries
}
