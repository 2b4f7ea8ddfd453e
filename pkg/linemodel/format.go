package linemodel

import (
	"fmt"
	"html"
	"strings"
)

// Mode selects the presentation surface a line is rendered for.
type Mode int

const (
	// Plain renders terminal/plain text.
	Plain Mode = iota
	// Markup renders HTML-escaped text; html.UnescapeString recovers Plain.
	Markup
)

// Content returns the line's display text in Plain mode.
func (l Line) Content() string {
	return l.Render(Plain)
}

// Render derives the display text from the line's stored state. An expanded
// line shows its indented source; a collapsed container shows its summary.
func (l Line) Render(mode Mode) string {
	s := l.Source()
	if l.IsContainerOpen() && l.Collapsed {
		s = l.Summary()
	}
	if mode == Markup {
		return html.EscapeString(s)
	}
	return s
}

// Summary returns the collapsed form of a container open line:
//
//	"b": [...] // 2 items
//	"c": {...}, // 1 property
//
// The prefix before the bracket is taken from Text, so an edited key shows as
// typed. Summary is never used for reconstruction.
func (l Line) Summary() string {
	marker := "{...}"
	if l.Kind == KindArrayOpen {
		marker = "[...]"
	}
	sep := ""
	if l.Trailing {
		sep = ","
	}
	return fmt.Sprintf("%s%s%s%s // %s", l.Indent(), openPrefix(l.Text), marker, sep, l.CountLabel())
}

// CountLabel describes the container's size, e.g. "3 properties" or "1 item".
func (l Line) CountLabel() string {
	noun := "items"
	switch {
	case l.Kind == KindObjectOpen && l.ChildCount == 1:
		noun = "property"
	case l.Kind == KindObjectOpen:
		noun = "properties"
	case l.ChildCount == 1:
		noun = "item"
	}
	return fmt.Sprintf("%d %s", l.ChildCount, noun)
}

// openPrefix strips the trailing opening bracket from an open line's text,
// leaving the optional key prefix. Text edited into some other shape is kept
// whole.
func openPrefix(text string) string {
	text = strings.TrimRight(text, " \t")
	if i := strings.LastIndexAny(text, "{["); i >= 0 && i == len(text)-1 {
		return text[:i]
	}
	return text + " "
}
