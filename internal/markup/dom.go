package markup

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// walk visits n and its descendants depth-first in document order. Returning
// false from fn skips the node's children.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// findAll returns every descendant element of n (excluding n) matching pred.
func findAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, func(node *html.Node) bool {
			if node.Type == html.ElementNode && pred(node) {
				out = append(out, node)
			}
			return true
		})
	}
	return out
}

// findFirst returns the first descendant element of n matching pred.
func findFirst(n *html.Node, pred func(*html.Node) bool) *html.Node {
	var found *html.Node
	for c := n.FirstChild; c != nil && found == nil; c = c.NextSibling {
		walk(c, func(node *html.Node) bool {
			if found != nil {
				return false
			}
			if node.Type == html.ElementNode && pred(node) {
				found = node
				return false
			}
			return true
		})
	}
	return found
}

func isTag(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.Data == tag }
}

func withClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool { return hasClass(n, class) }
}

func withID(id string) func(*html.Node) bool {
	return func(n *html.Node) bool { return getAttr(n, "id") == id }
}

// textContent concatenates all descendant text, like the DOM property.
func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(node *html.Node) bool {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		return true
	})
	return b.String()
}

func nextElementSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			attrs = append(attrs, a)
		}
	}
	n.Attr = attrs
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// setHidden adds or removes a "display: none" declaration, leaving other
// inline styles alone.
func setHidden(n *html.Node, hidden bool) {
	var decls []string
	for _, d := range strings.Split(getAttr(n, "style"), ";") {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if prop, _, ok := strings.Cut(d, ":"); ok && strings.TrimSpace(prop) == "display" {
			continue
		}
		decls = append(decls, d)
	}
	if hidden {
		decls = append(decls, "display: none")
	}
	if len(decls) == 0 {
		removeAttr(n, "style")
		return
	}
	setAttr(n, "style", strings.Join(decls, "; "))
}

func isHidden(n *html.Node) bool {
	for _, d := range strings.Split(getAttr(n, "style"), ";") {
		prop, val, ok := strings.Cut(d, ":")
		if ok && strings.TrimSpace(prop) == "display" && strings.TrimSpace(val) == "none" {
			return true
		}
	}
	return false
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

// el builds an element with attributes given as key/value pairs.
func el(a atom.Atom, kv ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(kv); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func appendText(n *html.Node, s string) *html.Node {
	n.AppendChild(text(s))
	return n
}
