package testutil

import (
	"fmt"

	"github.com/vanderheijden86/jsonview/pkg/linemodel"
)

// TB is the subset of testing.TB that *testing.T and *rapid.T share.
type TB interface {
	Helper()
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
}

// CheckFlat verifies the structural rules of a freshly flattened sequence:
// ids are dense from 0, every open line is closed by a line pointing back at
// it at the same depth, parents resolve to the innermost open container,
// depth equals the length of the parent chain for non-closing lines, and
// ChildCount matches the number of direct children.
func CheckFlat(lines []linemodel.Line) error {
	var stack []linemodel.Line
	children := make(map[linemodel.ID]int)
	roots := 0

	for i, l := range lines {
		if l.ID != linemodel.ID(i) {
			return fmt.Errorf("line %d: id %d, want %d", i, l.ID, i)
		}
		if l.IsClosingLine() {
			if len(stack) == 0 {
				return fmt.Errorf("line %d: close without open", i)
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if l.ParentID != open.ID {
				return fmt.Errorf("line %d: close parent %d, want %d", i, l.ParentID, open.ID)
			}
			if l.Depth != open.Depth {
				return fmt.Errorf("line %d: close depth %d, want %d", i, l.Depth, open.Depth)
			}
			if children[open.ID] != open.ChildCount {
				return fmt.Errorf("line %d: %d children, ChildCount %d", open.ID, children[open.ID], open.ChildCount)
			}
			continue
		}

		want := linemodel.NoParent
		if len(stack) > 0 {
			want = stack[len(stack)-1].ID
			children[want]++
		} else {
			roots++
		}
		if l.ParentID != want {
			return fmt.Errorf("line %d: parent %d, want %d", i, l.ParentID, want)
		}
		if l.Depth != len(stack) {
			return fmt.Errorf("line %d: depth %d, want %d", i, l.Depth, len(stack))
		}
		if l.IsContainerOpen() {
			stack = append(stack, l)
		}
	}

	if len(stack) > 0 {
		return fmt.Errorf("%d unclosed containers", len(stack))
	}
	if len(lines) > 0 && roots != 1 {
		return fmt.Errorf("%d top-level values, want 1", roots)
	}
	return nil
}

// AssertFlat fails the test when CheckFlat reports a violation.
func AssertFlat(t TB, lines []linemodel.Line) {
	t.Helper()
	if err := CheckFlat(lines); err != nil {
		t.Fatalf("flat sequence invalid: %v", err)
	}
}

// AssertDense fails unless DisplayLine runs 1..len(lines).
func AssertDense(t TB, lines []linemodel.Line) {
	t.Helper()
	for i, l := range lines {
		if l.DisplayLine != i+1 {
			t.Fatalf("line id %d: DisplayLine %d, want %d", l.ID, l.DisplayLine, i+1)
		}
	}
}

// IDs returns the ids of lines in order.
func IDs(lines []linemodel.Line) []linemodel.ID {
	ids := make([]linemodel.ID, len(lines))
	for i, l := range lines {
		ids[i] = l.ID
	}
	return ids
}

// Subtree returns the ids strictly inside the container opened by id,
// including its closing line, taken from a fully expanded flat sequence.
func Subtree(lines []linemodel.Line, id linemodel.ID) []linemodel.ID {
	inside := map[linemodel.ID]bool{id: true}
	var out []linemodel.ID
	for _, l := range lines {
		if l.ID == id {
			continue
		}
		if inside[l.ParentID] {
			out = append(out, l.ID)
			if l.IsContainerOpen() {
				inside[l.ID] = true
			}
		}
	}
	return out
}
