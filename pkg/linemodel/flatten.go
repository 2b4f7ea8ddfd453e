package linemodel

import (
	"github.com/vanderheijden86/jsonview/pkg/jsonvalue"
	"github.com/vanderheijden86/jsonview/pkg/metrics"
)

// slot describes where a value sits in the tree being flattened.
type slot struct {
	base   ID // id of the first line emitted for the value
	parent ID
	depth  int
	key    string
	hasKey bool
	path   string
	last   bool // no sibling follows
}

// Flatten converts v into its flat line sequence. Every container is
// expanded and ids run from 0 in flat order.
func Flatten(v jsonvalue.Value) []Line {
	defer metrics.Timer(metrics.Flatten)()
	return flattenValue(v, slot{parent: NoParent, last: true})
}

// flattenValue returns the lines for one value. It owns the returned slice;
// the caller splices it into its own.
func flattenValue(v jsonvalue.Value, s slot) []Line {
	prefix := ""
	if s.hasKey {
		prefix = jsonvalue.Quote(s.key) + ": "
	}
	sep := ""
	if !s.last {
		sep = ","
	}

	if !v.IsContainer() {
		return []Line{{
			ID:       s.base,
			ParentID: s.parent,
			Depth:    s.depth,
			Kind:     KindScalar,
			Key:      s.key,
			HasKey:   s.hasKey,
			Text:     prefix + v.Literal() + sep,
			Trailing: !s.last,
			Path:     s.path,
		}}
	}

	kind, opener, closer := KindObjectOpen, "{", "}"
	if v.Kind() == jsonvalue.KindArray {
		kind, opener, closer = KindArrayOpen, "[", "]"
	}

	lines := []Line{{
		ID:         s.base,
		ParentID:   s.parent,
		Depth:      s.depth,
		Kind:       kind,
		Key:        s.key,
		HasKey:     s.hasKey,
		Text:       prefix + opener,
		Trailing:   !s.last,
		ChildCount: v.Len(),
		Path:       s.path,
	}}

	child := slot{parent: s.base, depth: s.depth + 1}
	switch v.Kind() {
	case jsonvalue.KindObject:
		members := v.Members()
		for i, m := range members {
			child.base = s.base + ID(len(lines))
			child.key, child.hasKey = m.Key, true
			child.path = jsonvalue.ChildPointer(s.path, m.Key)
			child.last = i == len(members)-1
			lines = append(lines, flattenValue(m.Value, child)...)
		}
	case jsonvalue.KindArray:
		elems := v.Elements()
		for i, e := range elems {
			child.base = s.base + ID(len(lines))
			child.path = jsonvalue.IndexPointer(s.path, i)
			child.last = i == len(elems)-1
			lines = append(lines, flattenValue(e, child)...)
		}
	}

	return append(lines, Line{
		ID:       s.base + ID(len(lines)),
		ParentID: s.base,
		Depth:    s.depth,
		Kind:     KindClose,
		Text:     closer + sep,
		Trailing: !s.last,
		Path:     s.path,
	})
}
