// Package linemodel turns a JSON value into an ordered, addressable sequence
// of lines and keeps a visible projection of it in sync with collapse state
// and single-line edits.
//
// The flat sequence is a pre-order walk of the value with an explicit close
// line after every container's children:
//
//	{              object open   id 0  parent -
//	  "a": 1,      scalar        id 1  parent 0
//	  "b": [       array open    id 2  parent 0
//	    2,         scalar        id 3  parent 2
//	    3          scalar        id 4  parent 2
//	  ]            close         id 5  parent 2
//	}              close         id 6  parent 0
//
// Each line stores the JSON text it contributes (Text). Everything shown to a
// user (indentation, collapsed summaries, markup escaping) is derived from
// that text and the line's structural fields, so joining the Text of every
// line always yields the document being edited.
package linemodel

import "strings"

// ID identifies a line within one flatten pass. IDs are assigned
// sequentially in flat order starting at 0.
type ID int

// NoParent is the ParentID of the root line.
const NoParent ID = -1

// Kind classifies a line.
type Kind int

const (
	KindScalar Kind = iota
	KindObjectOpen
	KindArrayOpen
	KindClose
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindObjectOpen:
		return "object-open"
	case KindArrayOpen:
		return "array-open"
	case KindClose:
		return "container-close"
	default:
		return "unknown"
	}
}

// IndentUnit is the per-depth indentation of canonical output.
const IndentUnit = "  "

// Line is one row of the flattened tree.
type Line struct {
	ID       ID
	ParentID ID
	Depth    int
	Kind     Kind

	// Key is the object key this line belongs to; HasKey is false for array
	// elements, the root and close lines.
	Key    string
	HasKey bool

	// Text is the line's JSON source without indentation, including the
	// trailing separator of a non-final sibling.
	Text string

	// Trailing is set when the value is followed by a sibling. For a
	// container it is recorded on both the open and the close line; only the
	// close line's Text carries the comma.
	Trailing bool

	// ChildCount is the number of immediate children (container opens only).
	ChildCount int

	// Collapsed is meaningful on container opens only.
	Collapsed bool

	// Edited marks a line whose Text was replaced after flattening.
	Edited bool

	// Path is the RFC 6901 pointer of the value the line belongs to. A close
	// line shares its container's pointer.
	Path string

	// DisplayLine is the 1-based position in a projection, 0 outside one.
	DisplayLine int
}

// IsContainerOpen reports whether the line opens an object or array.
func (l Line) IsContainerOpen() bool {
	return l.Kind == KindObjectOpen || l.Kind == KindArrayOpen
}

// IsClosingLine reports whether the line closes a container.
func (l Line) IsClosingLine() bool {
	return l.Kind == KindClose
}

// Indent returns the indentation for the line's depth.
func (l Line) Indent() string {
	return strings.Repeat(IndentUnit, l.Depth)
}

// Source returns the indented JSON text used for reconstruction.
func (l Line) Source() string {
	return l.Indent() + l.Text
}
