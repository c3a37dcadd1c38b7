// Package render builds the controls surface and the results table as an
// HTML node tree. Building and serializing are separate steps: the tree is
// a pure function of its inputs and Render turns any node into markup.
package render

import (
	"bytes"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Render serializes n.
func Render(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// el creates an element. attrs are key/value pairs.
func el(tag string, attrs ...string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// add appends children and returns the parent.
func add(parent *html.Node, children ...*html.Node) *html.Node {
	for _, c := range children {
		if c != nil {
			parent.AppendChild(c)
		}
	}
	return parent
}

// textEl is an element holding a single text node.
func textEl(tag, s string, attrs ...string) *html.Node {
	return add(el(tag, attrs...), text(s))
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

// indexed tags n with the case and step it edits.
func indexed(n *html.Node, ci, si int) *html.Node {
	setAttr(n, "data-idx", strconv.Itoa(ci))
	setAttr(n, "data-stepidx", strconv.Itoa(si))
	return n
}

func classes(names ...string) string {
	var out []byte
	for _, n := range names {
		if n == "" {
			continue
		}
		if len(out) > 0 {
			out = append(out, ' ')
		}
		out = append(out, n...)
	}
	return string(out)
}

func button(label string, attrs ...string) *html.Node {
	return textEl("button", label, append([]string{"type", "submit"}, attrs...)...)
}

func hidden(name, value string) *html.Node {
	return el("input", "type", "hidden", "name", name, "value", value)
}
