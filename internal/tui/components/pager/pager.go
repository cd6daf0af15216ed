// Package pager fits tab content to the terminal, scrolling so the selected
// row stays visible.
package pager

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
)

// Cursor prefixes the selected row.
const Cursor = "> "

// Window returns the height lines of content that include the selected
// row. Content that already fits, or a zero height before the first resize,
// is returned unchanged.
func Window(content string, width, height int) string {
	if height <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) <= height {
		return content
	}

	selected := 0
	for i, line := range lines {
		if strings.HasPrefix(line, Cursor) {
			selected = i
			break
		}
	}

	vp := viewport.New(width, height)
	vp.SetContent(content)
	if selected >= height {
		vp.SetYOffset(selected - height + 1)
	}
	return vp.View()
}
