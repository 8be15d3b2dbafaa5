// Package paste converts pasted HTML into document nodes.
//
// Deserialization never fails on markup: unknown elements are transparent
// and contribute their children, and every block receives at least one
// child.
package paste

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/syssam/loom/document"
)

// state is the formatting in effect for a subtree.
type state struct {
	active   document.MarkSet
	disabled document.MarkSet
	link     string
}

func (s state) withMarks(m document.MarkSet) state {
	s.active = s.active.Union(m)
	return s
}

// withLink keeps the outermost link and disables underline beneath it.
func (s state) withLink(href string) state {
	if s.link == "" {
		s.link = href
	}
	s.disabled = s.disabled.With(document.Underline)
	return s
}

// leaf returns a text leaf carrying the state's marks and link.
func (s state) leaf(text string) document.Node {
	return document.Node{
		Text:  text,
		Marks: s.active.Minus(s.disabled),
		Link:  s.link,
	}
}

func empty() []document.Node { return []document.Node{{}} }

var headings = map[atom.Atom]int{
	atom.H1: 1,
	atom.H2: 2,
	atom.H3: 3,
	atom.H4: 4,
	atom.H5: 5,
	atom.H6: 6,
}

// blockTags start a new line when flattened into inline content.
var blockTags = map[atom.Atom]bool{
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.P:          true,
	atom.Div:        true,
	atom.Blockquote: true,
}

// DeserializeHTML converts an HTML fragment or document into a non-empty
// sequence of document nodes.
func DeserializeHTML(src string) []document.Node {
	nodes, err := Deserialize(strings.NewReader(src))
	if err != nil {
		return empty()
	}
	return nodes
}

// Deserialize parses HTML from r and converts its body.
func Deserialize(r io.Reader) ([]document.Node, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("paste: %w", err)
	}
	body := find(root, atom.Body)
	if body == nil {
		return empty(), nil
	}
	return DeserializeNode(body), nil
}

// DeserializeNode converts a parsed HTML node and its descendants.
func DeserializeNode(n *html.Node) []document.Node {
	return deserialize(n, state{})
}

func find(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, a); found != nil {
			return found
		}
	}
	return nil
}

// leafNodes converts text and line breaks; ok is false for anything else.
func leafNodes(n *html.Node, s state) (nodes []document.Node, ok bool) {
	switch {
	case n.Type == html.TextNode:
		if n.Data == "" {
			return empty(), true
		}
		return []document.Node{s.leaf(n.Data)}, true
	case n.Type == html.ElementNode && n.DataAtom == atom.Br:
		return []document.Node{s.leaf("\n")}, true
	}
	return nil, false
}

func deserialize(n *html.Node, s state) []document.Node {
	if nodes, ok := leafNodes(n, s); ok {
		return nodes
	}
	if n.Type != html.ElementNode {
		return nil
	}
	if n.DataAtom == atom.Hr {
		return []document.Node{document.Block(document.Divider, document.Node{})}
	}
	marks := elementMarks(n)
	// Dropbox Paper renders blockquotes as lists and marks them italic.
	if hasClass(n, "listtype-quote") {
		return []document.Node{
			document.Block(document.Blockquote, children(n, s.withMarks(marks.Without(document.Italic)))...),
		}
	}
	s = s.withMarks(marks)

	switch n.DataAtom {
	case atom.A:
		if href := attr(n, "href"); href != "" {
			return children(n, s.withLink(href))
		}
	case atom.Li:
		return []document.Node{listItem(n, s)}
	case atom.Pre:
		if text := textContent(n); text != "" {
			return []document.Node{document.Block(document.CodeBlock, document.Node{Text: text})}
		}
	}

	kids := children(n, s)
	switch n.DataAtom {
	case atom.P:
		return []document.Node{{Type: document.Paragraph, TextAlign: alignment(n), Children: kids}}
	case atom.Blockquote:
		return []document.Node{document.Block(document.Blockquote, kids...)}
	case atom.Ol:
		return []document.Node{document.Block(document.OrderedList, kids...)}
	case atom.Ul:
		return []document.Node{document.Block(document.UnorderedList, kids...)}
	}
	if level, ok := headings[n.DataAtom]; ok {
		return []document.Node{{Type: document.Heading, Level: level, TextAlign: alignment(n), Children: kids}}
	}
	return kids
}

// listItem flattens the content of an item into one wrapper and keeps the
// last nested list as a sibling of the wrapper.
func listItem(n *html.Node, s state) document.Node {
	var content, nested []document.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Ul || c.DataAtom == atom.Ol) {
			nested = deserialize(c, s)
			continue
		}
		content = append(content, inline(c, s)...)
	}
	if len(content) == 0 {
		content = empty()
	}
	item := document.Block(document.ListItem, document.Block(document.ListItemContent, content...))
	item.Children = append(item.Children, nested...)
	return item
}

// children converts the child nodes of n. The result is never empty, and
// whitespace-only inline results are dropped when any block is present.
func children(n *html.Node, s state) []document.Node {
	var out []document.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, deserialize(c, s)...)
	}
	if len(out) == 0 {
		return empty()
	}
	if !hasBlock(out) {
		return out
	}
	kept := out[:0]
	for _, node := range out {
		if node.IsBlock() || strings.TrimSpace(node.String()) != "" {
			kept = append(kept, node)
		}
	}
	return kept
}

func hasBlock(nodes []document.Node) bool {
	for _, n := range nodes {
		if n.IsBlock() {
			return true
		}
	}
	return false
}

// inline converts n into text leaves only, as used inside list items.
func inline(n *html.Node, s state) []document.Node {
	if nodes, ok := leafNodes(n, s); ok {
		return nodes
	}
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.A:
			if href := attr(n, "href"); href != "" {
				return inlineChildren(n, s.withLink(href))
			}
		case atom.Pre:
			if text := textContent(n); text != "" {
				return []document.Node{{Text: text}}
			}
		}
	}
	return inlineChildren(n, s.withMarks(elementMarks(n)))
}

// inlineChildren flattens the children of n, starting a new line before
// the content of a block element unless nothing precedes it.
func inlineChildren(n *html.Node, s state) []document.Node {
	var out []document.Node
	newline := false
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && blockTags[c.DataAtom] {
			newline = true
		}
		content := inline(c, s)
		if newline && hasText(content) {
			if len(out) > 0 {
				out = append(out, s.leaf("\n"))
			}
			newline = false
		}
		out = append(out, content...)
	}
	if len(out) == 0 {
		return empty()
	}
	return out
}

func hasText(nodes []document.Node) bool {
	for _, n := range nodes {
		if strings.IndexFunc(n.String(), func(r rune) bool { return !unicode.IsSpace(r) }) >= 0 {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
