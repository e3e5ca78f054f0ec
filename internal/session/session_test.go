package session

import (
	"errors"
	"testing"

	"github.com/agis/defectview/internal/filter"
	"github.com/agis/defectview/internal/issue"
	"github.com/agis/defectview/internal/severity"
)

func testExtraction() issue.Extraction {
	return issue.Extraction{
		Issues: []issue.Issue{
			{ID: "D-1", Title: "Crash", Severity: "MODERATE", Weight: 16, Products: []string{"CORE"}},
			{ID: "D-2", Title: "Typo", Severity: "MINOR", Weight: 1, Products: []string{"CORE", "UI"}},
			{ID: "D-3", Title: "Wrong answer", Severity: "SIGNIFICANT", Weight: 128, Products: []string{"UI"}},
		},
		Headings: []issue.Heading{
			{ID: "D-1", Text: "Crash"},
			{ID: "D-2", Text: "Typo"},
			{ID: "D-3", Text: "Wrong answer"},
		},
	}
}

func navAnchors(v View) []string {
	var out []string
	for _, n := range v.Nav {
		out = append(out, n.Anchor)
	}
	return out
}

func TestRefreshUsesDefaults(t *testing.T) {
	s := New(testExtraction(), Options{Table: severity.Default(), InlineListing: true})
	v := s.Refresh()

	// MINOR is hidden by default.
	if v.Result.IsVisible("D-2") {
		t.Error("D-2 should be hidden by the MINOR default")
	}
	if got := navAnchors(v); len(got) != 2 || got[0] != "#D-1" || got[1] != "#D-3" {
		t.Errorf("nav = %v", got)
	}
}

func TestEventsResyncSidebar(t *testing.T) {
	s := New(testExtraction(), Options{Table: severity.Default(), InlineListing: true})

	v, err := s.SetHideAll("MINOR", false)
	if err != nil {
		t.Fatalf("SetHideAll: %v", err)
	}
	if len(v.Nav) != 3 {
		t.Errorf("nav after unhide = %v", navAnchors(v))
	}

	v, err = s.SelectProduct("UI")
	if err != nil {
		t.Fatalf("SelectProduct: %v", err)
	}
	if got := navAnchors(v); len(got) != 2 || got[0] != "#D-2" || got[1] != "#D-3" {
		t.Errorf("nav for UI = %v", got)
	}
	if v.State.SelectedProduct != "UI" {
		t.Errorf("state product = %q", v.State.SelectedProduct)
	}

	v, err = s.SetIDOnly("SIGNIFICANT", true)
	if err != nil {
		t.Fatalf("SetIDOnly: %v", err)
	}
	if got := v.Result.Listing("SIGNIFICANT"); len(got) != 1 || got[0].Text != "D-3" {
		t.Errorf("SIGNIFICANT listing = %+v", got)
	}

	v, err = s.SetShowDescription("SIGNIFICANT", false)
	if err != nil {
		t.Fatalf("SetShowDescription: %v", err)
	}
	if got := v.Result.Listing("SIGNIFICANT"); got[0].Suffix != "" {
		t.Errorf("suffix should be empty, got %q", got[0].Suffix)
	}
}

func TestFailedEventLeavesStateUnchanged(t *testing.T) {
	s := New(testExtraction(), Options{
		Table:         severity.Default(),
		Products:      []string{"CORE", "UI"},
		InlineListing: true,
	})
	before := s.State()

	if _, err := s.SelectProduct("NOPE"); !errors.Is(err, filter.ErrUnknownProduct) {
		t.Fatalf("error = %v, want ErrUnknownProduct", err)
	}
	if _, err := s.SetHideAll("MAJOR", true); !errors.Is(err, filter.ErrUnknownSeverity) {
		t.Fatalf("error = %v, want ErrUnknownSeverity", err)
	}
	if s.State().SelectedProduct != before.SelectedProduct {
		t.Error("product changed after failed event")
	}
}

func TestNoInlineListingIgnoresHideAll(t *testing.T) {
	s := New(testExtraction(), Options{Table: severity.Default(), InlineListing: false})

	v := s.Refresh()
	if !v.Result.IsVisible("D-2") {
		t.Error("without an inline listing, MINOR sections should be visible")
	}
	if !v.State.Display("MINOR").HideAll {
		t.Error("stored hide-all flag must be kept")
	}
	if !s.State().Display("MINOR").HideAll {
		t.Error("session state must not be reset")
	}
}
