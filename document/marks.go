package document

import (
	"strconv"
	"strings"
)

// Mark is a character level formatting attribute of a text leaf.
type Mark uint8

// Marks supported by the editor.
const (
	Bold Mark = iota
	Italic
	Underline
	Strikethrough
	Code
	Superscript
	Subscript
	Keyboard

	numMarks
)

var markNames = [numMarks]string{
	Bold:          "bold",
	Italic:        "italic",
	Underline:     "underline",
	Strikethrough: "strikethrough",
	Code:          "code",
	Superscript:   "superscript",
	Subscript:     "subscript",
	Keyboard:      "keyboard",
}

// String returns the JSON key of the mark.
func (m Mark) String() string {
	if m < numMarks {
		return markNames[m]
	}
	return "mark(" + strconv.Itoa(int(m)) + ")"
}

// ParseMark returns the mark with the given JSON key.
func ParseMark(name string) (Mark, bool) {
	for m, n := range markNames {
		if n == name {
			return Mark(m), true
		}
	}
	return 0, false
}

// AllMarks lists the marks in their JSON order.
func AllMarks() []Mark {
	all := make([]Mark, numMarks)
	for i := range all {
		all[i] = Mark(i)
	}
	return all
}

// MarkSet is a set of marks. The zero value is empty.
type MarkSet uint16

// Marks returns a set holding ms.
func Marks(ms ...Mark) MarkSet {
	var s MarkSet
	for _, m := range ms {
		s = s.With(m)
	}
	return s
}

// Has reports whether m is in the set.
func (s MarkSet) Has(m Mark) bool { return s&(1<<m) != 0 }

// With returns the set with m added.
func (s MarkSet) With(m Mark) MarkSet { return s | 1<<m }

// Without returns the set with m removed.
func (s MarkSet) Without(m Mark) MarkSet { return s &^ (1 << m) }

// Union returns the marks in either set.
func (s MarkSet) Union(o MarkSet) MarkSet { return s | o }

// Minus returns the marks of s that are not in o.
func (s MarkSet) Minus(o MarkSet) MarkSet { return s &^ o }

// Empty reports whether the set has no marks.
func (s MarkSet) Empty() bool { return s == 0 }

// List returns the marks of the set in their JSON order.
func (s MarkSet) List() []Mark {
	var out []Mark
	for m := Mark(0); m < numMarks; m++ {
		if s.Has(m) {
			out = append(out, m)
		}
	}
	return out
}

func (s MarkSet) String() string {
	names := make([]string, 0, numMarks)
	for _, m := range s.List() {
		names = append(names, m.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}
