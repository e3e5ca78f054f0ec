// Package markup reads and updates the HTML defect report page.
//
// The page carries one <section> per issue. Inside each section the upstream
// template places an h2 with the issue id, a span whose class starts with
// "tooltip-" holding the severity name, a .weight and an optional .products
// span, and an optional "Description" h3 followed by the description block.
// Those conventions live only in this package; the rest of the module works on
// issue.Record values.
package markup

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/agis/defectview/internal/issue"
	"github.com/agis/defectview/internal/severity"
)

// Element ids the page template provides.
const (
	InlineListingID = "inline-toc"
	SidebarID       = "sidebar-nav"
	DropdownID      = "dropdown-container"
	ProductSelectID = "product-filter"
)

const (
	severityClassPrefix = "tooltip-"
	weightClass         = "weight"
	productsClass       = "products"
	descriptionLabel    = "Description"
)

// Document is a parsed report page.
type Document struct {
	root     *html.Node
	sections []*html.Node
}

// Parse reads a report page.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse report html: %w", err)
	}
	return &Document{
		root:     root,
		sections: findAll(root, isTag("section")),
	}, nil
}

// SectionCount returns the number of <section> elements.
func (d *Document) SectionCount() int {
	return len(d.sections)
}

// HasInlineListing reports whether the page has the inline severity listing.
func (d *Document) HasInlineListing() bool {
	return d.byID(InlineListingID) != nil
}

// Records returns one record per section, in document order.
func (d *Document) Records() []issue.Record {
	records := make([]issue.Record, 0, len(d.sections))
	for _, sec := range d.sections {
		records = append(records, sectionRecord(sec))
	}
	return records
}

// Extract reads the records of every section and extracts issues from them.
func (d *Document) Extract(table severity.Table) issue.Extraction {
	return issue.Extract(d.Records(), table)
}

// AnnotateSeverities replaces the title of every severity marker with a
// data-tooltip holding the level's description. Unknown severities get an
// empty tooltip.
func (d *Document) AnnotateSeverities(table severity.Table) int {
	n := 0
	for _, sec := range d.sections {
		span := severityMarker(sec)
		if span == nil {
			continue
		}
		removeAttr(span, "title")
		setAttr(span, "data-tooltip", table.Tooltip(strings.TrimSpace(textContent(span))))
		n++
	}
	return n
}

// Render writes the page.
func (d *Document) Render(w io.Writer) error {
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("render report html: %w", err)
	}
	return nil
}

func (d *Document) byID(id string) *html.Node {
	return findFirst(d.root, withID(id))
}

func sectionRecord(sec *html.Node) issue.Record {
	var rec issue.Record

	if h2 := findFirst(sec, isTag("h2")); h2 != nil {
		rec.HeadingID = getAttr(h2, "id")
		rec.HeadingText = strings.TrimSpace(textContent(h2))
		rec.HeadingClass = getAttr(h2, "class")
	}
	if span := severityMarker(sec); span != nil {
		rec.Severity, rec.HasSeverity = textContent(span), true
	}
	if w := findFirst(sec, withClass(weightClass)); w != nil {
		rec.Weight, rec.HasWeight = textContent(w), true
	}
	if p := findFirst(sec, withClass(productsClass)); p != nil {
		rec.Products, rec.HasProducts = textContent(p), true
	}
	for _, h3 := range findAll(sec, isTag("h3")) {
		if textContent(h3) != descriptionLabel {
			continue
		}
		if body := nextElementSibling(h3); body != nil {
			rec.Description, rec.HasDescription = textContent(body), true
		}
		break
	}
	return rec
}

func severityMarker(sec *html.Node) *html.Node {
	return findFirst(sec, func(n *html.Node) bool {
		return n.Data == "span" && strings.HasPrefix(getAttr(n, "class"), severityClassPrefix)
	})
}

func sectionID(sec *html.Node) string {
	if h2 := findFirst(sec, isTag("h2")); h2 != nil {
		return getAttr(h2, "id")
	}
	return ""
}
