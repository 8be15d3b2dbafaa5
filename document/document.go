// Package document defines the node tree of the rich text editor.
//
// A document is a sequence of nodes. Block nodes carry a Type and own at
// least one child; text leaves have an empty Type and carry text, marks and
// an optional link target.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Type discriminates the node variants. Text leaves have the empty type.
type Type string

// Node types.
const (
	Text            Type = ""
	Paragraph       Type = "paragraph"
	Heading         Type = "heading"
	Blockquote      Type = "blockquote"
	CodeBlock       Type = "code"
	Divider         Type = "divider"
	OrderedList     Type = "ordered-list"
	UnorderedList   Type = "unordered-list"
	ListItem        Type = "list-item"
	ListItemContent Type = "list-item-content"
)

var blockTypes = map[Type]bool{
	Paragraph:       true,
	Heading:         true,
	Blockquote:      true,
	CodeBlock:       true,
	Divider:         true,
	OrderedList:     true,
	UnorderedList:   true,
	ListItem:        true,
	ListItemContent: true,
}

// Align is the text alignment of paragraphs and headings.
type Align string

// Alignments. Start alignment is the default and has no value.
const (
	AlignStart  Align = ""
	AlignCenter Align = "center"
	AlignEnd    Align = "end"
)

// Node is a document node.
type Node struct {
	Type Type

	// Text leaves.
	Text  string
	Marks MarkSet
	Link  string

	// Blocks.
	Level     int
	TextAlign Align
	Children  []Node
}

// Leaf returns a text leaf.
func Leaf(text string, marks ...Mark) Node {
	return Node{Text: text, Marks: Marks(marks...)}
}

// Block returns a block node of type t.
func Block(t Type, children ...Node) Node {
	return Node{Type: t, Children: children}
}

// IsBlock reports whether n is a block node.
func (n Node) IsBlock() bool { return n.Type != Text }

// String returns the concatenated text of n and its descendants.
func (n Node) String() string {
	if !n.IsBlock() {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(c.String())
	}
	return b.String()
}

// Validate checks the structural invariants of n and its descendants.
func (n Node) Validate() error {
	return n.validate("")
}

func (n Node) validate(path string) error {
	if !n.IsBlock() {
		if len(n.Children) > 0 {
			return fmt.Errorf("document: text leaf %s has children", path)
		}
		return nil
	}
	if !blockTypes[n.Type] {
		return fmt.Errorf("document: unknown node type %q at %s", n.Type, path)
	}
	if len(n.Children) == 0 {
		return fmt.Errorf("document: %s block %s has no children", n.Type, path)
	}
	if n.Type == Heading && (n.Level < 1 || n.Level > 6) {
		return fmt.Errorf("document: heading %s has level %d", path, n.Level)
	}
	var errs []error
	for i, c := range n.Children {
		if err := c.validate(fmt.Sprintf("%s/%d", path, i)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Validate checks every node of a document.
func Validate(nodes []Node) error {
	if len(nodes) == 0 {
		return errors.New("document: no nodes")
	}
	var errs []error
	for i, n := range nodes {
		if err := n.validate(fmt.Sprintf("/%d", i)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type blockJSON struct {
	Type      Type   `json:"type"`
	Level     int    `json:"level,omitempty"`
	TextAlign Align  `json:"textAlign,omitempty"`
	Children  []Node `json:"children"`
}

// MarshalJSON encodes leaves with their marks flattened into boolean keys
// and blocks with their type and children.
func (n Node) MarshalJSON() ([]byte, error) {
	if n.IsBlock() {
		return json.Marshal(blockJSON{Type: n.Type, Level: n.Level, TextAlign: n.TextAlign, Children: n.Children})
	}
	var b strings.Builder
	text, err := json.Marshal(n.Text)
	if err != nil {
		return nil, err
	}
	b.WriteString(`{"text":`)
	b.Write(text)
	for _, m := range n.Marks.List() {
		b.WriteString(`,"` + m.String() + `":true`)
	}
	if n.Link != "" {
		link, err := json.Marshal(n.Link)
		if err != nil {
			return nil, err
		}
		b.WriteString(`,"link":`)
		b.Write(link)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// UnmarshalJSON decodes the format written by MarshalJSON. Unknown keys
// of text leaves are ignored.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if _, ok := raw["type"]; ok {
		var b blockJSON
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*n = Node{Type: b.Type, Level: b.Level, TextAlign: b.TextAlign, Children: b.Children}
		return nil
	}
	var leaf Node
	for key, v := range raw {
		switch key {
		case "text":
			if err := json.Unmarshal(v, &leaf.Text); err != nil {
				return fmt.Errorf("document: text: %w", err)
			}
		case "link":
			if err := json.Unmarshal(v, &leaf.Link); err != nil {
				return fmt.Errorf("document: link: %w", err)
			}
		default:
			m, ok := ParseMark(key)
			if !ok {
				continue
			}
			var on bool
			if err := json.Unmarshal(v, &on); err != nil {
				return fmt.Errorf("document: mark %s: %w", key, err)
			}
			if on {
				leaf.Marks = leaf.Marks.With(m)
			}
		}
	}
	*n = leaf
	return nil
}
