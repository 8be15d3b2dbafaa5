package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkSet(t *testing.T) {
	s := Marks(Bold, Italic)
	assert.True(t, s.Has(Bold))
	assert.False(t, s.Has(Underline))
	assert.Equal(t, []Mark{Bold, Italic}, s.List())
	assert.Equal(t, Marks(Italic), s.Without(Bold))
	assert.Equal(t, Marks(Bold), s.Minus(Marks(Italic, Code)))
	assert.Equal(t, Marks(Bold, Italic, Code), s.Union(Marks(Code)))
	assert.True(t, MarkSet(0).Empty())
	assert.Equal(t, "{bold,italic}", s.String())
	assert.Len(t, AllMarks(), 8)

	m, ok := ParseMark("keyboard")
	require.True(t, ok)
	assert.Equal(t, Keyboard, m)
	_, ok = ParseMark("blink")
	assert.False(t, ok)
}

func TestMarshalJSON(t *testing.T) {
	doc := []Node{
		{Type: Heading, Level: 2, TextAlign: AlignCenter, Children: []Node{Leaf("Title")}},
		Block(Paragraph,
			Leaf("Hello "),
			Leaf("world", Bold, Italic),
			Node{Text: "link", Link: "https://x.test"},
		),
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"type": "heading", "level": 2, "textAlign": "center", "children": [{"text": "Title"}]},
		{"type": "paragraph", "children": [
			{"text": "Hello "},
			{"text": "world", "bold": true, "italic": true},
			{"text": "link", "link": "https://x.test"}
		]}
	]`, string(data))

	var back []Node
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, doc, back)
}

func TestUnmarshalLeafIgnoresUnknownKeys(t *testing.T) {
	var n Node
	require.NoError(t, json.Unmarshal([]byte(`{"text":"x","bold":false,"code":true,"color":"red"}`), &n))
	assert.Equal(t, Leaf("x", Code), n)
	assert.Error(t, json.Unmarshal([]byte(`{"text":"x","bold":"yes"}`), &n))
}

func TestString(t *testing.T) {
	n := Block(ListItem, Block(ListItemContent, Leaf("a"), Leaf("b")), Block(UnorderedList, Block(ListItem, Leaf("c"))))
	assert.Equal(t, "abc", n.String())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		doc  []Node
		err  string
	}{
		{name: "valid", doc: []Node{Block(Divider, Leaf(""))}},
		{name: "empty document", doc: nil, err: "no nodes"},
		{name: "empty block", doc: []Node{Block(Paragraph)}, err: "has no children"},
		{name: "bad level", doc: []Node{{Type: Heading, Level: 7, Children: []Node{Leaf("x")}}}, err: "level 7"},
		{name: "unknown type", doc: []Node{Block("table", Leaf("x"))}, err: `unknown node type "table"`},
		{name: "leaf with children", doc: []Node{{Text: "x", Children: []Node{Leaf("y")}}}, err: "has children"},
		{
			name: "nested",
			doc:  []Node{Block(Blockquote, Block(Paragraph))},
			err:  "/0/0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.doc)
			if tt.err == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.err)
		})
	}
}

func TestBinary(t *testing.T) {
	doc := []Node{
		{Type: Heading, Level: 1, TextAlign: AlignEnd, Children: []Node{Leaf("T", Bold, Keyboard)}},
		Block(UnorderedList, Block(ListItem, Block(ListItemContent, Node{Text: "x", Link: "/a"}))),
	}
	data, err := MarshalBinary(doc)
	require.NoError(t, err)
	back, err := UnmarshalBinary(data)
	require.NoError(t, err)
	assert.Equal(t, doc, back)

	bad, err := MarshalBinary([]Node{Block(Paragraph)})
	require.NoError(t, err)
	_, err = UnmarshalBinary(bad)
	assert.ErrorContains(t, err, "has no children")

	_, err = UnmarshalBinary([]byte{0xc1})
	assert.Error(t, err)
}
