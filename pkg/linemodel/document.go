package linemodel

import (
	"slices"

	"github.com/vanderheijden86/jsonview/pkg/jsonvalue"
)

// Document owns one flat line sequence and its current visible projection.
//
// Only collapse flags and line text change between rebuilds. Every mutation
// that can change visibility re-projects the whole sequence before
// returning. A Document is not safe for concurrent use.
type Document struct {
	lines      []Line
	index      map[ID]int // id -> position in lines
	visible    []Line
	visibleIdx map[ID]int // id -> position in visible
	dirty      bool
}

// NewDocument flattens v into a fully expanded document.
func NewDocument(v jsonvalue.Value) *Document {
	return FromLines(Flatten(v))
}

// FromLines wraps an existing flat sequence. The slice is copied.
func FromLines(lines []Line) *Document {
	d := &Document{lines: slices.Clone(lines)}
	d.reindex()
	d.reproject()
	return d
}

func (d *Document) reindex() {
	d.index = make(map[ID]int, len(d.lines))
	for i, l := range d.lines {
		d.index[l.ID] = i
	}
}

func (d *Document) reproject() {
	d.visible = Project(d.lines)
	d.visibleIdx = make(map[ID]int, len(d.visible))
	for i, l := range d.visible {
		d.visibleIdx[l.ID] = i
	}
}

// Len returns the number of lines in the flat sequence.
func (d *Document) Len() int { return len(d.lines) }

// Lines returns a copy of the flat sequence.
func (d *Document) Lines() []Line { return slices.Clone(d.lines) }

// Visible returns a copy of the current projection.
func (d *Document) Visible() []Line { return slices.Clone(d.visible) }

// VisibleLen returns the number of visible lines.
func (d *Document) VisibleLen() int { return len(d.visible) }

// VisibleAt returns the visible line at 0-based position i.
func (d *Document) VisibleAt(i int) (Line, bool) {
	if i < 0 || i >= len(d.visible) {
		return Line{}, false
	}
	return d.visible[i], true
}

// VisibleIndex returns the 0-based projection position of id, or -1 when the
// line is hidden or unknown.
func (d *Document) VisibleIndex(id ID) int {
	if i, ok := d.visibleIdx[id]; ok {
		return i
	}
	return -1
}

// Line looks up a line by id.
func (d *Document) Line(id ID) (Line, bool) {
	i, ok := d.index[id]
	if !ok {
		return Line{}, false
	}
	return d.lines[i], true
}

// Parent returns the line's enclosing container open line.
func (d *Document) Parent(id ID) (Line, bool) {
	l, ok := d.Line(id)
	if !ok || l.ParentID == NoParent {
		return Line{}, false
	}
	return d.Line(l.ParentID)
}

// VisibleAncestor returns id itself when visible, otherwise the nearest
// ancestor that is. It returns false only for unknown ids.
func (d *Document) VisibleAncestor(id ID) (ID, bool) {
	seen := 0
	for {
		if d.VisibleIndex(id) >= 0 {
			return id, true
		}
		l, ok := d.Line(id)
		if !ok || l.ParentID == NoParent || seen > len(d.lines) {
			return 0, false
		}
		id = l.ParentID
		seen++
	}
}

// FindPath returns the first line whose Path equals pointer: the open line
// of a container or the line of a scalar.
func (d *Document) FindPath(pointer string) (ID, bool) {
	for _, l := range d.lines {
		if l.Path == pointer && !l.IsClosingLine() {
			return l.ID, true
		}
	}
	return 0, false
}

// Toggle flips the collapsed state of a container open line. Unknown ids and
// non-container lines are ignored; the return value reports a change.
func (d *Document) Toggle(id ID) bool {
	l, ok := d.Line(id)
	if !ok || !l.IsContainerOpen() {
		return false
	}
	return d.SetCollapsed(id, !l.Collapsed)
}

// SetCollapsed sets the collapsed state of a container open line.
func (d *Document) SetCollapsed(id ID, collapsed bool) bool {
	i, ok := d.index[id]
	if !ok || !d.lines[i].IsContainerOpen() || d.lines[i].Collapsed == collapsed {
		return false
	}
	d.lines[i].Collapsed = collapsed
	d.reproject()
	return true
}

// ExpandAll expands every container and re-projects once.
func (d *Document) ExpandAll() {
	d.setAll(func(Line) bool { return false })
}

// CollapseAll collapses every container, the root included, and re-projects
// once.
func (d *Document) CollapseAll() {
	d.setAll(func(Line) bool { return true })
}

// CollapseDepth collapses containers at depth >= depth and expands the rest.
// A depth <= 0 expands everything.
func (d *Document) CollapseDepth(depth int) {
	if depth <= 0 {
		d.ExpandAll()
		return
	}
	d.setAll(func(l Line) bool { return l.Depth >= depth })
}

func (d *Document) setAll(collapsed func(Line) bool) {
	for i := range d.lines {
		if d.lines[i].IsContainerOpen() {
			d.lines[i].Collapsed = collapsed(d.lines[i])
		}
	}
	d.reproject()
}

// HasCollapsed reports whether any container is collapsed.
func (d *Document) HasCollapsed() bool {
	for _, l := range d.lines {
		if l.IsContainerOpen() && l.Collapsed {
			return true
		}
	}
	return false
}

// CollapsedPaths returns the pointers of all collapsed containers in flat
// order.
func (d *Document) CollapsedPaths() []string {
	var paths []string
	for _, l := range d.lines {
		if l.IsContainerOpen() && l.Collapsed {
			paths = append(paths, l.Path)
		}
	}
	return paths
}

// ApplyCollapsed collapses the containers at the given pointers. Pointers
// that do not name a container are ignored. It returns how many containers
// were collapsed.
func (d *Document) ApplyCollapsed(paths []string) int {
	if len(paths) == 0 {
		return 0
	}
	want := make(map[string]bool, len(paths))
	for _, p := range paths {
		want[p] = true
	}
	n := 0
	for i := range d.lines {
		l := &d.lines[i]
		if l.IsContainerOpen() && want[l.Path] && !l.Collapsed {
			l.Collapsed = true
			n++
		}
	}
	if n > 0 {
		d.reproject()
	}
	return n
}

// Edit replaces one line's text and marks the document dirty. Nothing is
// re-flattened: siblings, separators and collapse state stay as they are
// until the edited text is validated and saved.
func (d *Document) Edit(id ID, text string) bool {
	i, ok := d.index[id]
	if !ok {
		return false
	}
	if d.lines[i].Text == text {
		return true
	}
	d.lines[i].Text = text
	d.lines[i].Edited = true
	d.dirty = true

	// Projection copies carry the text too.
	if j, ok := d.visibleIdx[id]; ok {
		d.visible[j].Text = text
		d.visible[j].Edited = true
	}
	return true
}

// Dirty reports whether any line was edited since the document was built.
func (d *Document) Dirty() bool { return d.dirty }

// Reconstruct joins the full flat sequence into JSON text. Hidden lines are
// included and collapsed containers contribute their source text, never
// their summary.
func (d *Document) Reconstruct() string {
	return Reconstruct(d.lines)
}
