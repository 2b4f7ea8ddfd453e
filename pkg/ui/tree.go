// tree.go - collapsible line view of a JSON document.
//
// The tree view renders the visible projection of a linemodel.Document with
// a line-number gutter, keeps a cursor on a line id, and scrolls a window
// over the projection so rendering cost stays proportional to the viewport.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/jsonview/pkg/linemodel"
	"github.com/vanderheijden86/jsonview/pkg/metrics"
)

// TreeModel manages cursor and viewport over a document's visible lines.
type TreeModel struct {
	doc            *linemodel.Document
	theme          Theme
	cursor         int // position in the visible projection
	viewportOffset int
	width          int
	height         int
	lineNumbers    bool
}

// NewTreeModel creates an empty tree view.
func NewTreeModel(theme Theme) TreeModel {
	return TreeModel{theme: theme, lineNumbers: true}
}

// SetSize updates the available dimensions for the tree view.
func (t *TreeModel) SetSize(width, height int) {
	t.width = width
	t.height = height
	t.ensureCursorVisible()
}

// SetLineNumbers shows or hides the gutter.
func (t *TreeModel) SetLineNumbers(on bool) { t.lineNumbers = on }

// SetDocument points the view at doc and moves the cursor to the top.
func (t *TreeModel) SetDocument(doc *linemodel.Document) {
	t.doc = doc
	t.cursor = 0
	t.viewportOffset = 0
	t.clampCursor()
}

// Document returns the document being viewed.
func (t *TreeModel) Document() *linemodel.Document { return t.doc }

// NodeCount returns the number of visible lines.
func (t *TreeModel) NodeCount() int {
	if t.doc == nil {
		return 0
	}
	return t.doc.VisibleLen()
}

// Cursor returns the cursor position in the visible projection.
func (t *TreeModel) Cursor() int { return t.cursor }

// SelectedLine returns the line under the cursor.
func (t *TreeModel) SelectedLine() (linemodel.Line, bool) {
	if t.doc == nil {
		return linemodel.Line{}, false
	}
	return t.doc.VisibleAt(t.cursor)
}

// SelectedID returns the id of the line under the cursor.
func (t *TreeModel) SelectedID() (linemodel.ID, bool) {
	l, ok := t.SelectedLine()
	return l.ID, ok
}

// SelectedPath returns the JSON pointer of the line under the cursor.
func (t *TreeModel) SelectedPath() string {
	l, _ := t.SelectedLine()
	return l.Path
}

// SelectByID moves the cursor to id, or to its nearest visible ancestor when
// id is hidden. Returns false for unknown ids.
func (t *TreeModel) SelectByID(id linemodel.ID) bool {
	if t.doc == nil {
		return false
	}
	vid, ok := t.doc.VisibleAncestor(id)
	if !ok {
		return false
	}
	t.cursor = t.doc.VisibleIndex(vid)
	t.ensureCursorVisible()
	return true
}

// SelectByPath moves the cursor to the line for pointer, walking up to the
// closest existing ancestor pointer when it is gone.
func (t *TreeModel) SelectByPath(pointer string) bool {
	if t.doc == nil {
		return false
	}
	for {
		if id, ok := t.doc.FindPath(pointer); ok {
			return t.SelectByID(id)
		}
		i := strings.LastIndexByte(pointer, '/')
		if i < 0 {
			return false
		}
		pointer = pointer[:i]
	}
}

// MoveDown moves the cursor down one line.
func (t *TreeModel) MoveDown() {
	if t.cursor < t.NodeCount()-1 {
		t.cursor++
		t.ensureCursorVisible()
	}
}

// MoveUp moves the cursor up one line.
func (t *TreeModel) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
		t.ensureCursorVisible()
	}
}

// JumpToTop moves the cursor to the first line.
func (t *TreeModel) JumpToTop() {
	t.cursor = 0
	t.ensureCursorVisible()
}

// JumpToBottom moves the cursor to the last line.
func (t *TreeModel) JumpToBottom() {
	if n := t.NodeCount(); n > 0 {
		t.cursor = n - 1
		t.ensureCursorVisible()
	}
}

// container returns the open line a toggle on l acts on: l itself for an
// open line, its open line for a close line.
func (t *TreeModel) container(l linemodel.Line) (linemodel.Line, bool) {
	switch {
	case l.IsContainerOpen():
		return l, true
	case l.IsClosingLine():
		return t.doc.Line(l.ParentID)
	}
	return linemodel.Line{}, false
}

// ToggleExpand collapses or expands the container under the cursor. On a
// closing bracket it acts on the matching open line.
func (t *TreeModel) ToggleExpand() bool {
	l, ok := t.SelectedLine()
	if !ok {
		return false
	}
	open, ok := t.container(l)
	if !ok || !t.doc.Toggle(open.ID) {
		return false
	}
	t.SelectByID(open.ID)
	return true
}

// ExpandAll expands every container, keeping the cursor on its line.
func (t *TreeModel) ExpandAll() {
	t.keepSelection(t.doc.ExpandAll)
}

// CollapseAll collapses every container; only the root summary remains.
func (t *TreeModel) CollapseAll() {
	t.keepSelection(t.doc.CollapseAll)
}

// CollapseDepth collapses containers at depth >= n.
func (t *TreeModel) CollapseDepth(n int) {
	t.keepSelection(func() { t.doc.CollapseDepth(n) })
}

// ToggleExpandCollapseAll expands all when anything is collapsed, otherwise
// collapses all.
func (t *TreeModel) ToggleExpandCollapseAll() {
	if t.doc == nil {
		return
	}
	if t.doc.HasCollapsed() {
		t.ExpandAll()
	} else {
		t.CollapseAll()
	}
}

// keepSelection runs a visibility change and puts the cursor back on the
// same line, or its nearest visible ancestor.
func (t *TreeModel) keepSelection(change func()) {
	if t.doc == nil {
		return
	}
	id, had := t.SelectedID()
	change()
	if !had || !t.SelectByID(id) {
		t.clampCursor()
	}
}

// JumpToParent moves the cursor to the enclosing container's open line.
func (t *TreeModel) JumpToParent() {
	l, ok := t.SelectedLine()
	if !ok || l.ParentID == linemodel.NoParent {
		return
	}
	t.SelectByID(l.ParentID)
}

// ExpandOrMoveToChild handles the → / l key:
//   - collapsed container: expand it
//   - expanded container with children: move to its first child
//   - anything else: nothing
func (t *TreeModel) ExpandOrMoveToChild() {
	l, ok := t.SelectedLine()
	if !ok || !l.IsContainerOpen() {
		return
	}
	if l.Collapsed {
		t.doc.SetCollapsed(l.ID, false)
		t.SelectByID(l.ID)
		return
	}
	if l.ChildCount > 0 {
		t.MoveDown()
	}
}

// CollapseOrJumpToParent handles the ← / h key:
//   - expanded container: collapse it
//   - closing bracket: collapse its container
//   - otherwise: jump to the parent
func (t *TreeModel) CollapseOrJumpToParent() {
	l, ok := t.SelectedLine()
	if !ok {
		return
	}
	if open, ok := t.container(l); ok && !open.Collapsed {
		t.doc.SetCollapsed(open.ID, true)
		t.SelectByID(open.ID)
		return
	}
	t.JumpToParent()
}

// PageDown moves the cursor down by half a viewport.
func (t *TreeModel) PageDown() {
	t.cursor += t.halfPage()
	t.clampCursor()
	t.ensureCursorVisible()
}

// PageUp moves the cursor up by half a viewport.
func (t *TreeModel) PageUp() {
	t.cursor -= t.halfPage()
	t.clampCursor()
	t.ensureCursorVisible()
}

func (t *TreeModel) halfPage() int {
	if n := t.height / 2; n >= 1 {
		return n
	}
	return 5
}

func (t *TreeModel) clampCursor() {
	n := t.NodeCount()
	if t.cursor >= n {
		t.cursor = n - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

// effectiveVisibleCount returns how many lines fit, reserving a row for the
// position indicator when the projection scrolls.
func (t *TreeModel) effectiveVisibleCount() int {
	visibleCount := t.height
	if visibleCount <= 0 {
		visibleCount = 20
	}
	if t.NodeCount() > visibleCount {
		visibleCount--
	}
	if visibleCount < 1 {
		visibleCount = 1
	}
	return visibleCount
}

// ensureCursorVisible scrolls just enough to keep the cursor on screen.
func (t *TreeModel) ensureCursorVisible() {
	n := t.NodeCount()
	if n == 0 {
		t.viewportOffset = 0
		return
	}
	visibleCount := t.effectiveVisibleCount()

	if t.cursor < t.viewportOffset {
		t.viewportOffset = t.cursor
	}
	if t.cursor >= t.viewportOffset+visibleCount {
		t.viewportOffset = t.cursor - visibleCount + 1
	}

	maxOffset := n - visibleCount
	if maxOffset < 0 {
		maxOffset = 0
	}
	if t.viewportOffset > maxOffset {
		t.viewportOffset = maxOffset
	}
	if t.viewportOffset < 0 {
		t.viewportOffset = 0
	}
}

// visibleRange returns the [start, end) window of projection positions to
// render.
func (t *TreeModel) visibleRange() (start, end int) {
	n := t.NodeCount()
	if n == 0 {
		return 0, 0
	}
	visibleCount := t.effectiveVisibleCount()
	start = t.viewportOffset
	if start < 0 {
		start = 0
	}
	end = start + visibleCount
	if end > n {
		end = n
		start = end - visibleCount
		if start < 0 {
			start = 0
		}
	}
	return start, end
}

// View renders the visible window.
func (t *TreeModel) View() string {
	if t.NodeCount() == 0 {
		return t.renderEmptyState()
	}
	defer metrics.Timer(metrics.Render)()

	gw := gutterWidth(t.NodeCount())
	start, end := t.visibleRange()

	var sb strings.Builder
	for i := start; i < end; i++ {
		l, _ := t.doc.VisibleAt(i)
		sb.WriteString(t.renderLine(l, gw, i == t.cursor))
		sb.WriteString("\n")
	}
	if t.NodeCount() > t.effectiveVisibleCount() {
		sb.WriteString(t.renderPositionIndicator(start, end))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func (t *TreeModel) renderLine(l linemodel.Line, gw int, selected bool) string {
	var sb strings.Builder
	if t.lineNumbers {
		num := fmt.Sprintf("%*d", gw, l.DisplayLine)
		sb.WriteString(t.theme.Gutter.Render(num))
		if l.Edited {
			sb.WriteString(t.theme.Edited.Render("*"))
		} else {
			sb.WriteString(" ")
		}
		sb.WriteString(t.theme.Gutter.Render("│ "))
	}

	content := l.Content()
	avail := t.width - lipgloss.Width(sb.String())
	if t.width > 0 {
		content = truncateRunesHelper(content, avail, "…")
	}

	if selected {
		sb.WriteString(t.theme.Selected.Render(padRight(content, avail)))
	} else {
		sb.WriteString(Highlight(t.theme, content))
	}
	return sb.String()
}

// renderPositionIndicator shows "lines X-Y of N".
func (t *TreeModel) renderPositionIndicator(start, end int) string {
	indicator := fmt.Sprintf(" lines %d-%d of %d", start+1, end, t.NodeCount())
	return t.theme.MutedText.Render(indicator)
}

func (t *TreeModel) renderEmptyState() string {
	return t.theme.MutedText.Render("  No document loaded.")
}
