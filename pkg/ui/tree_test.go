package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/jsonview/pkg/jsonvalue"
	"github.com/vanderheijden86/jsonview/pkg/linemodel"
	"github.com/vanderheijden86/jsonview/pkg/testutil"
)

// sampleJSON flattens to
//
//	0 {   1 "a": 1,   2 "b": [   3 2,   4 3   5 ]   6 }
const sampleJSON = `{"a":1,"b":[2,3]}`

func testTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(nil))
}

func newTestTree(t *testing.T, src string) TreeModel {
	t.Helper()
	v, err := jsonvalue.ParseString(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tree := NewTreeModel(testTheme())
	tree.SetSize(80, 20)
	tree.SetDocument(linemodel.NewDocument(v))
	return tree
}

func selectedID(t *testing.T, tree *TreeModel) linemodel.ID {
	t.Helper()
	id, ok := tree.SelectedID()
	if !ok {
		t.Fatal("expected a selected line")
	}
	return id
}

func TestTreeToggleKeepsCursorOnContainer(t *testing.T) {
	tree := newTestTree(t, sampleJSON)
	tree.MoveDown()
	tree.MoveDown()

	if !tree.ToggleExpand() {
		t.Fatal("expected toggle to change state")
	}
	if tree.NodeCount() != 4 {
		t.Errorf("expected 4 visible lines, got %d", tree.NodeCount())
	}
	if id := selectedID(t, &tree); id != 2 {
		t.Errorf("expected cursor on line 2, got %d", id)
	}

	tree.MoveDown()
	if id := selectedID(t, &tree); id != 6 {
		t.Errorf("expected cursor to skip hidden lines to 6, got %d", id)
	}
}

func TestTreeToggleOnScalarIsNoop(t *testing.T) {
	tree := newTestTree(t, sampleJSON)
	tree.MoveDown()
	if tree.ToggleExpand() {
		t.Error("expected toggle on scalar to do nothing")
	}
	if tree.NodeCount() != 7 {
		t.Errorf("expected 7 visible lines, got %d", tree.NodeCount())
	}
}

func TestTreeToggleOnClosingLineActsOnOpen(t *testing.T) {
	tree := newTestTree(t, sampleJSON)
	tree.JumpToBottom()

	if !tree.ToggleExpand() {
		t.Fatal("expected toggle on closing bracket to collapse root")
	}
	if tree.NodeCount() != 1 {
		t.Errorf("expected only the root summary, got %d lines", tree.NodeCount())
	}
	if id := selectedID(t, &tree); id != 0 {
		t.Errorf("expected cursor on root, got %d", id)
	}
}

func TestTreeCollapseOrJumpToParent(t *testing.T) {
	tree := newTestTree(t, sampleJSON)
	tree.SelectByID(3)

	tree.CollapseOrJumpToParent()
	if id := selectedID(t, &tree); id != 2 {
		t.Fatalf("expected jump to parent 2, got %d", id)
	}

	tree.CollapseOrJumpToParent()
	l, _ := tree.Document().Line(2)
	if !l.Collapsed {
		t.Error("expected second press to collapse the array")
	}

	tree.CollapseOrJumpToParent()
	if id := selectedID(t, &tree); id != 0 {
		t.Errorf("expected jump to root, got %d", id)
	}
}

func TestTreeExpandOrMoveToChild(t *testing.T) {
	tree := newTestTree(t, sampleJSON)
	tree.SelectByID(2)
	tree.Document().SetCollapsed(2, true)

	tree.ExpandOrMoveToChild()
	l, _ := tree.Document().Line(2)
	if l.Collapsed {
		t.Fatal("expected first press to expand")
	}
	if id := selectedID(t, &tree); id != 2 {
		t.Errorf("expected cursor to stay on 2, got %d", id)
	}

	tree.ExpandOrMoveToChild()
	if id := selectedID(t, &tree); id != 3 {
		t.Errorf("expected move to first child 3, got %d", id)
	}
}

func TestTreeSelectByPathFallsBackToAncestor(t *testing.T) {
	tree := newTestTree(t, sampleJSON)

	if !tree.SelectByPath("/b/1") {
		t.Fatal("expected /b/1 to resolve")
	}
	if id := selectedID(t, &tree); id != 4 {
		t.Errorf("expected line 4, got %d", id)
	}

	tree.Document().SetCollapsed(2, true)
	tree.SelectByPath("/b/1")
	if id := selectedID(t, &tree); id != 2 {
		t.Errorf("expected hidden pointer to select collapsed parent, got %d", id)
	}

	tree.SelectByPath("/b/9/x")
	if got := tree.SelectedPath(); got != "/b" {
		t.Errorf("expected missing pointer to fall back to /b, got %q", got)
	}

	tree.SelectByPath("/zzz")
	if got := tree.SelectedPath(); got != "" {
		t.Errorf("expected fallback to root pointer, got %q", got)
	}
}

func TestTreeCollapseAllKeepsNearestAncestor(t *testing.T) {
	tree := newTestTree(t, sampleJSON)
	tree.SelectByID(4)

	tree.CollapseAll()
	if tree.NodeCount() != 1 {
		t.Errorf("expected 1 visible line, got %d", tree.NodeCount())
	}
	if id := selectedID(t, &tree); id != 0 {
		t.Errorf("expected cursor on root, got %d", id)
	}

	tree.ExpandAll()
	if tree.NodeCount() != 7 {
		t.Errorf("expected 7 visible lines, got %d", tree.NodeCount())
	}
}

func TestTreeToggleExpandCollapseAll(t *testing.T) {
	tree := newTestTree(t, sampleJSON)
	tree.ToggleExpandCollapseAll()
	if !tree.Document().HasCollapsed() {
		t.Fatal("expected everything collapsed")
	}
	tree.ToggleExpandCollapseAll()
	if tree.Document().HasCollapsed() {
		t.Error("expected everything expanded")
	}
}

func TestTreeViewShowsSummary(t *testing.T) {
	tree := newTestTree(t, sampleJSON)
	tree.Document().SetCollapsed(2, true)

	view := tree.View()
	if !strings.Contains(view, `"b": [...] // 2 items`) {
		t.Errorf("expected collapsed summary in view, got:\n%s", view)
	}
	if strings.Contains(view, "    2,") {
		t.Errorf("expected hidden children to be absent, got:\n%s", view)
	}
	if got := strings.Count(view, "\n") + 1; got != 4 {
		t.Errorf("expected 4 rendered rows, got %d", got)
	}
}

func TestTreeViewGutter(t *testing.T) {
	tree := newTestTree(t, sampleJSON)
	tree.SelectByID(1)
	tree.Document().Edit(1, `"a": 2,`)

	rows := strings.Split(tree.View(), "\n")
	if !strings.HasPrefix(rows[1], "2*│ ") {
		t.Errorf("expected edited marker in gutter, got %q", rows[1])
	}
	if !strings.HasPrefix(rows[0], "1 │ {") {
		t.Errorf("expected numbered first row, got %q", rows[0])
	}

	tree.SetLineNumbers(false)
	rows = strings.Split(tree.View(), "\n")
	if rows[0] != "{" {
		t.Errorf("expected bare first row without gutter, got %q", rows[0])
	}
}

func TestTreeScrollsToCursor(t *testing.T) {
	tree := NewTreeModel(testTheme())
	tree.SetSize(80, 10)
	tree.SetDocument(linemodel.NewDocument(testutil.Wide(50)))

	tree.JumpToBottom()
	if tree.Cursor() != 51 {
		t.Fatalf("expected cursor 51, got %d", tree.Cursor())
	}
	if tree.viewportOffset == 0 {
		t.Error("expected viewport to scroll")
	}
	view := tree.View()
	if !strings.Contains(view, "lines 44-52 of 52") {
		t.Errorf("expected position indicator, got:\n%s", view)
	}
	if !strings.Contains(view, "}") {
		t.Errorf("expected last line rendered, got:\n%s", view)
	}

	tree.PageUp()
	if tree.Cursor() != 46 {
		t.Errorf("expected half page up to 46, got %d", tree.Cursor())
	}
	tree.JumpToTop()
	if tree.viewportOffset != 0 {
		t.Errorf("expected offset 0 at top, got %d", tree.viewportOffset)
	}
}

func TestTreeEmpty(t *testing.T) {
	tree := NewTreeModel(testTheme())
	tree.MoveDown()
	tree.ToggleExpand()
	tree.CollapseAll()
	if tree.Document() != nil {
		t.Error("expected no document")
	}
	if !strings.Contains(tree.View(), "No document loaded.") {
		t.Errorf("expected empty state, got %q", tree.View())
	}
	if _, ok := tree.SelectedLine(); ok {
		t.Error("expected no selection")
	}
}
