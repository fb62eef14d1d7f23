// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package powertop

// dom.go provides the small set of element lookups the HTML parser needs on top of
// golang.org/x/net/html.

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// elementMatcher reports whether an element node is wanted.
type elementMatcher func(*html.Node) bool

// withTag matches elements by tag.
func withTag(tag atom.Atom) elementMatcher {
	return func(n *html.Node) bool {
		return n.DataAtom == tag
	}
}

// withClass matches elements carrying class in their class list.
func withClass(class string) elementMatcher {
	return func(n *html.Node) bool {
		return hasClass(n, class)
	}
}

// withTagAndClass matches elements by tag and class, e.g. "li.summary_list".
func withTagAndClass(tag atom.Atom, class string) elementMatcher {
	return func(n *html.Node) bool {
		return n.DataAtom == tag && hasClass(n, class)
	}
}

// withID matches the element with the given id attribute.
func withID(id string) elementMatcher {
	return func(n *html.Node) bool {
		return attr(n, "id") == id
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// findAll returns the element descendants of root (excluding root) that match, in
// document order.
func findAll(root *html.Node, match elementMatcher) []*html.Node {
	var found []*html.Node
	if root == nil {
		return found
	}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && match(c) {
				found = append(found, c)
			}
			walk(c)
		}
	}
	walk(root)
	return found
}

// findFirst returns the first matching element descendant of root, or nil.
func findFirst(root *html.Node, match elementMatcher) *html.Node {
	if root == nil {
		return nil
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && match(c) {
			return c
		}
		if n := findFirst(c, match); n != nil {
			return n
		}
	}
	return nil
}

// textContent concatenates the text of n and all its descendants.
func textContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// trimmedText returns the trimmed text content of n, "" for nil.
func trimmedText(n *html.Node) string {
	return strings.TrimSpace(textContent(n))
}

// cellText returns the trimmed text of cells[i] or "" when the cell is missing.
func cellText(cells []*html.Node, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return trimmedText(cells[i])
}

// firstTableIn returns the first table below the element with the given id.
func firstTableIn(doc *html.Node, id string) *html.Node {
	container := findFirst(doc, withID(id))
	if container == nil {
		return nil
	}
	return findFirst(container, withTag(atom.Table))
}
