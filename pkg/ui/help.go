package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# jv

## Navigation

| Key | Action |
|-----|--------|
| j / k, ↓ / ↑ | Move down / up |
| l / → | Expand, or move into the container |
| h / ← | Collapse, or jump to the parent |
| space / enter | Toggle the container under the cursor |
| g / G | Top / bottom |
| ctrl+d / ctrl+u | Half page down / up |
| E / C | Expand all / collapse all |
| ctrl+a | Expand all if anything is collapsed, else collapse all |

## Editing

| Key | Action |
|-----|--------|
| e | Edit the line under the cursor (enter applies, esc cancels) |
| v | Validate the edited document |
| ctrl+s | Save: validate, rebuild and write the file |
| R | Reformat: discard edits and rebuild from the last saved value |

## Other

| Key | Action |
|-----|--------|
| tab | Switch between tree and raw JSON |
| y | Copy the document as JSON |
| p | Copy the JSON pointer of the current line |
| ? | Toggle this help |
| q | Quit (twice when there are unsaved edits) |
`

// renderHelp renders the key reference for the given width. Without a
// working renderer the markdown source is shown as is.
func renderHelp(width int) string {
	if width <= 0 {
		width = 80
	}
	wrap := width - 4
	if wrap > 100 {
		wrap = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return strings.TrimRight(out, "\n ")
}
