package document

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// binaryNode is the compact storage form of a node. Marks are kept as a
// bit set.
type binaryNode struct {
	Type      Type         `msgpack:"t,omitempty"`
	Text      string       `msgpack:"x,omitempty"`
	Marks     MarkSet      `msgpack:"m,omitempty"`
	Link      string       `msgpack:"l,omitempty"`
	Level     int          `msgpack:"h,omitempty"`
	TextAlign Align        `msgpack:"a,omitempty"`
	Children  []binaryNode `msgpack:"c,omitempty"`
}

func toBinary(nodes []Node) []binaryNode {
	out := make([]binaryNode, len(nodes))
	for i, n := range nodes {
		out[i] = binaryNode{
			Type:      n.Type,
			Text:      n.Text,
			Marks:     n.Marks,
			Link:      n.Link,
			Level:     n.Level,
			TextAlign: n.TextAlign,
		}
		if len(n.Children) > 0 {
			out[i].Children = toBinary(n.Children)
		}
	}
	return out
}

func fromBinary(nodes []binaryNode) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = Node{
			Type:      n.Type,
			Text:      n.Text,
			Marks:     n.Marks,
			Link:      n.Link,
			Level:     n.Level,
			TextAlign: n.TextAlign,
		}
		if len(n.Children) > 0 {
			out[i].Children = fromBinary(n.Children)
		}
	}
	return out
}

// MarshalBinary encodes a document with msgpack for storage.
func MarshalBinary(nodes []Node) ([]byte, error) {
	data, err := msgpack.Marshal(toBinary(nodes))
	if err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	return data, nil
}

// UnmarshalBinary decodes a document written by MarshalBinary and checks
// its structure.
func UnmarshalBinary(data []byte) ([]Node, error) {
	var raw []binaryNode
	if err := msgpack.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	nodes := fromBinary(raw)
	if err := Validate(nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}
