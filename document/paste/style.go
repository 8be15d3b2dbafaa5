package paste

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/syssam/loom/document"
)

// inlineStyle parses a style attribute into lower-cased declarations.
// Later declarations win.
func inlineStyle(n *html.Node) map[string]string {
	style := make(map[string]string)
	for _, decl := range strings.Split(attr(n, "style"), ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(value)
		value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))
		if prop != "" {
			style[prop] = strings.ToLower(value)
		}
	}
	return style
}

func attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
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

var textTags = map[string]document.Mark{
	"code":   document.Code,
	"del":    document.Strikethrough,
	"s":      document.Strikethrough,
	"strike": document.Strikethrough,
	"em":     document.Italic,
	"i":      document.Italic,
	"strong": document.Bold,
	"u":      document.Underline,
	"sup":    document.Superscript,
	"sub":    document.Subscript,
	"kbd":    document.Keyboard,
}

var heavyWeight = regexp.MustCompile(`^[5-9][0-9]{2}$`)

// elementMarks derives the marks an element applies to its descendants
// from its tag and inline style.
func elementMarks(n *html.Node) document.MarkSet {
	var marks document.MarkSet
	if n.Type != html.ElementNode {
		return marks
	}
	if m, ok := textTags[n.Data]; ok {
		marks = marks.With(m)
	}
	style := inlineStyle(n)
	switch style["text-decoration"] {
	case "underline":
		marks = marks.With(document.Underline)
	case "line-through":
		marks = marks.With(document.Strikethrough)
	}
	// Confluence marks inline code with a class.
	if n.Data == "span" && hasClass(n, "code") {
		marks = marks.With(document.Code)
	}
	// Google Docs wraps whole documents in <b style="font-weight:normal">.
	weight := style["font-weight"]
	if n.Data == "b" && weight != "normal" {
		marks = marks.With(document.Bold)
	} else if weight == "bold" || weight == "bolder" || weight == "1000" || heavyWeight.MatchString(weight) {
		marks = marks.With(document.Bold)
	}
	if style["font-style"] == "italic" {
		marks = marks.With(document.Italic)
	}
	switch style["vertical-align"] {
	case "super":
		marks = marks.With(document.Superscript)
	case "sub":
		marks = marks.With(document.Subscript)
	}
	return marks
}

// alignment reads the alignment of a paragraph or heading from the
// data-align attribute of its parent or its own text-align.
func alignment(n *html.Node) document.Align {
	switch attr(n.Parent, "data-align") {
	case "center":
		return document.AlignCenter
	case "end":
		return document.AlignEnd
	}
	switch inlineStyle(n)["text-align"] {
	case "center":
		return document.AlignCenter
	case "right", "end":
		return document.AlignEnd
	}
	return document.AlignStart
}
