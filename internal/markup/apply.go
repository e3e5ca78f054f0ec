package markup

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/agis/defectview/internal/filter"
	"github.com/agis/defectview/internal/resolve"
	"github.com/agis/defectview/internal/session"
	"github.com/agis/defectview/internal/severity"
	"github.com/agis/defectview/internal/sidebar"
)

// Apply draws a resolved view onto the page: section visibility, the inline
// severity listing (when the page has one), the sidebar and the product
// selector. Applying a second view replaces everything the first one drew.
// Sections without a heading id are not issues and are left as they are.
// Severity blocks take their colours from the matching level in table.
func (d *Document) Apply(v session.View, table severity.Table, products []string) {
	for _, sec := range d.sections {
		id := sectionID(sec)
		if id == "" {
			continue
		}
		setHidden(sec, !v.Result.IsVisible(id))
	}

	if toc := d.byID(InlineListingID); toc != nil {
		removeChildren(toc)
		for _, g := range v.Result.Groups {
			level, _ := table.Lookup(g.Severity)
			toc.AppendChild(severityBlock(g, level, v.State.Display(g.Severity)))
		}
	}

	d.applySidebar(v.Nav)
	d.applyProductSelect(v.State.SelectedProduct, products)
}

func severityBlock(g resolve.Group, level severity.Level, flags filter.SeverityDisplayState) *html.Node {
	box := el(atom.Div, "class", "severity-box", "style", blockStyle(level))

	head := el(atom.Div)
	h3 := el(atom.H3, "class", "defect-"+g.Severity, "title", g.Tooltip, "style", "margin: 0")
	appendText(h3, g.Header())
	head.AppendChild(h3)
	head.AppendChild(appendText(el(atom.Div, "class", "severity-description"), g.Tooltip))
	box.AppendChild(head)

	controls := el(atom.Div, "class", "controls")
	for _, c := range []struct {
		prefix, label string
		checked       bool
	}{
		{"idOnly-", "ID only", flags.IDOnly},
		{"showDesc-", "Include description", flags.ShowDescription},
		{"hide-", "Hide all", flags.HideAll},
	} {
		id := c.prefix + g.Severity
		input := el(atom.Input, "type", "checkbox", "id", id)
		if c.checked {
			setAttr(input, "checked", "")
		}
		controls.AppendChild(input)
		controls.AppendChild(appendText(el(atom.Label, "for", id), c.label))
	}
	box.AppendChild(controls)

	ul := el(atom.Ul)
	for _, e := range g.Entries {
		ul.AppendChild(listItem(e))
	}
	box.AppendChild(ul)
	return box
}

func blockStyle(l severity.Level) string {
	style := "margin-bottom: 10px"
	if l.BorderColor != "" {
		style += "; border: 1px solid " + l.BorderColor
	}
	if l.BgColor != "" {
		style += "; background-color: " + l.BgColor
	}
	return style
}

func listItem(e resolve.Entry) *html.Node {
	li := el(atom.Li, "class", "defect-"+e.Severity)
	if e.Suffix != "" {
		setAttr(li, "style", "display: block; margin-bottom: 0.5em")
	} else {
		setAttr(li, "style", "display: inline-block")
		setAttr(li, "data-tooltip", e.Tooltip)
	}

	a := el(atom.A, "href", e.Anchor)
	a.AppendChild(appendText(el(atom.Span, "style", "font-weight: bold"), e.Text))
	if e.Suffix != "" {
		a.AppendChild(appendText(el(atom.Span, "style", "font-weight: normal"), e.Suffix))
	}
	li.AppendChild(a)
	return li
}

func (d *Document) applySidebar(nav []sidebar.NavEntry) {
	bar := d.byID(SidebarID)
	if bar == nil {
		body := findFirst(d.root, isTag("body"))
		if body == nil {
			return
		}
		bar = el(atom.Nav, "id", SidebarID)
		body.InsertBefore(bar, body.FirstChild)
	}
	removeChildren(bar)

	ul := el(atom.Ul)
	for _, n := range nav {
		a := el(atom.A, "href", n.Anchor)
		if n.Class != "" {
			setAttr(a, "class", n.Class)
		}
		appendText(a, n.Text)
		li := el(atom.Li)
		li.AppendChild(a)
		ul.AppendChild(li)
	}
	bar.AppendChild(ul)
}

func (d *Document) applyProductSelect(selected string, products []string) {
	host := d.byID(DropdownID)
	if host == nil {
		return
	}
	removeChildren(host)

	options := append([]string(nil), products...)
	if !containsString(options, filter.AllProducts) {
		options = append([]string{filter.AllProducts}, options...)
	}
	if !containsString(options, selected) {
		options = append(options, selected)
	}

	sel := el(atom.Select, "id", ProductSelectID)
	for _, p := range options {
		opt := el(atom.Option, "value", p)
		if p == selected {
			setAttr(opt, "selected", "")
		}
		sel.AppendChild(appendText(opt, p))
	}
	host.AppendChild(sel)
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
