package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor

	// JSON tokens
	Key     lipgloss.AdaptiveColor
	String  lipgloss.AdaptiveColor
	Number  lipgloss.AdaptiveColor
	Literal lipgloss.AdaptiveColor // true, false, null
	Punct   lipgloss.AdaptiveColor
	Summary lipgloss.AdaptiveColor

	// Feedback
	Success lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Danger  lipgloss.AdaptiveColor

	// Styles
	Base      lipgloss.Style
	Selected  lipgloss.Style
	Header    lipgloss.Style
	Gutter    lipgloss.Style
	Edited    lipgloss.Style // gutter marker for edited lines
	StatusBar lipgloss.Style

	// Pre-computed token styles, created once instead of per frame
	KeyText     lipgloss.Style
	StringText  lipgloss.Style
	NumberText  lipgloss.Style
	LiteralText lipgloss.Style
	PunctText   lipgloss.Style
	SummaryText lipgloss.Style
	MutedText   lipgloss.Style
}

// DefaultTheme returns the Dracula-inspired adaptive theme.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},

		Key:     lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"},
		String:  lipgloss.AdaptiveColor{Light: "#808000", Dark: "#F1FA8C"},
		Number:  lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Literal: lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"},
		Punct:   lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"},
		Summary: lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"},

		Success: lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"},
		Warning: lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"},
		Danger:  lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Bold(true)
	if TermProfile < colorprofile.ANSI256 {
		// 16-color palettes have no usable highlight gray.
		t.Selected = r.NewStyle().Reverse(true).Bold(true)
	}

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.Gutter = r.NewStyle().Foreground(t.Muted)
	t.Edited = r.NewStyle().Foreground(t.Warning).Bold(true)
	t.StatusBar = r.NewStyle().Foreground(t.Secondary)

	t.KeyText = r.NewStyle().Foreground(t.Key)
	t.StringText = r.NewStyle().Foreground(t.String)
	t.NumberText = r.NewStyle().Foreground(t.Number)
	t.LiteralText = r.NewStyle().Foreground(t.Literal).Bold(true)
	t.PunctText = r.NewStyle().Foreground(t.Punct)
	t.SummaryText = r.NewStyle().Foreground(t.Summary).Italic(true)
	t.MutedText = r.NewStyle().Foreground(t.Muted)

	return t
}

// StatusStyle returns the status bar style for a message kind.
func (t Theme) StatusStyle(kind statusKind) lipgloss.Style {
	switch kind {
	case statusError:
		return t.Renderer.NewStyle().Foreground(t.Danger).Bold(true)
	case statusWarn:
		return t.Renderer.NewStyle().Foreground(t.Warning)
	case statusOK:
		return t.Renderer.NewStyle().Foreground(t.Success)
	default:
		return t.StatusBar
	}
}
