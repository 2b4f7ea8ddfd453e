package linemodel

import (
	"strings"

	"github.com/vanderheijden86/jsonview/pkg/metrics"
)

// Project returns the lines of flat that are not hidden by a collapsed
// ancestor, in their original order, with DisplayLine set to 1..k.
//
// A line is hidden when any container on its ParentID chain is collapsed.
// The hidden state is memoized per container, so each chain is walked once.
// ParentIDs that do not resolve within flat end the chain, which lets a
// partial sequence (a subtree) be projected on its own.
func Project(flat []Line) []Line {
	defer metrics.Timer(metrics.Project)()

	index := make(map[ID]int, len(flat))
	for i, l := range flat {
		index[l.ID] = i
	}

	// memo[id] reports whether children of container id are hidden.
	memo := make(map[ID]bool)
	var hidesChildren func(id ID) bool
	hidesChildren = func(id ID) bool {
		if h, ok := memo[id]; ok {
			return h
		}
		memo[id] = false // breaks malformed parent cycles
		i, ok := index[id]
		if !ok {
			return false
		}
		l := flat[i]
		h := l.IsContainerOpen() && l.Collapsed
		if !h && l.ParentID != NoParent {
			h = hidesChildren(l.ParentID)
		}
		memo[id] = h
		return h
	}

	out := make([]Line, 0, len(flat))
	for _, l := range flat {
		if l.ParentID != NoParent && hidesChildren(l.ParentID) {
			continue
		}
		l.DisplayLine = len(out) + 1
		out = append(out, l)
	}
	return out
}

// Reconstruct joins the indented source of every line with newlines. The
// result is the JSON document the lines describe; collapse state is ignored.
func Reconstruct(lines []Line) string {
	defer metrics.Timer(metrics.Reconstruct)()

	var sb strings.Builder
	for i, l := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(l.Indent())
		sb.WriteString(l.Text)
	}
	return sb.String()
}
