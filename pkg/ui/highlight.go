package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type tokenKind int

const (
	tokSpace tokenKind = iota
	tokKey
	tokString
	tokNumber
	tokLiteral
	tokPunct
	tokSummary
	tokOther
)

type token struct {
	kind tokenKind
	text string
}

// tokenize splits one display line into coloring tokens. It never fails:
// text that does not look like JSON (a half-typed edit) comes back as
// tokOther, and concatenating the token texts always gives back s.
func tokenize(s string) []token {
	var toks []token
	emit := func(k tokenKind, text string) {
		if text != "" {
			toks = append(toks, token{k, text})
		}
	}

	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			j := i
			for j < len(s) && (s[j] == ' ' || s[j] == '\t') {
				j++
			}
			emit(tokSpace, s[i:j])
			i = j

		case c == '"':
			j := scanString(s, i)
			kind := tokString
			if k := skipSpace(s, j); k < len(s) && s[k] == ':' {
				kind = tokKey
			}
			emit(kind, s[i:j])
			i = j

		case strings.HasPrefix(s[i:], "{...}") || strings.HasPrefix(s[i:], "[...]"):
			emit(tokSummary, s[i:i+5])
			i += 5

		case strings.HasPrefix(s[i:], "//"):
			emit(tokSummary, s[i:])
			i = len(s)

		case c == '-' || (c >= '0' && c <= '9'):
			j := i + 1
			for j < len(s) && strings.IndexByte("0123456789.eE+-", s[j]) >= 0 {
				j++
			}
			emit(tokNumber, s[i:j])
			i = j

		case strings.IndexByte("{}[],:", c) >= 0:
			emit(tokPunct, s[i:i+1])
			i++

		default:
			j := i
			for j < len(s) && isWordByte(s[j]) {
				j++
			}
			if j == i {
				j = i + 1
			}
			word := s[i:j]
			switch word {
			case "true", "false", "null":
				emit(tokLiteral, word)
			default:
				emit(tokOther, word)
			}
			i = j
		}
	}
	return toks
}

// scanString returns the index just past the string starting at s[i], or
// len(s) when it is unterminated.
func scanString(s string, i int) int {
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '"':
			return j + 1
		}
	}
	return len(s)
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

func isWordByte(c byte) bool {
	return c >= 0x80 || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Highlight colors one plain display line with the theme's token styles.
func Highlight(t Theme, s string) string {
	var sb strings.Builder
	for _, tok := range tokenize(s) {
		sb.WriteString(t.tokenStyle(tok.kind).Render(tok.text))
	}
	return sb.String()
}

func (t Theme) tokenStyle(k tokenKind) lipgloss.Style {
	switch k {
	case tokKey:
		return t.KeyText
	case tokString:
		return t.StringText
	case tokNumber:
		return t.NumberText
	case tokLiteral:
		return t.LiteralText
	case tokPunct:
		return t.PunctText
	case tokSummary:
		return t.SummaryText
	default:
		return t.Base
	}
}
