package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders assistant replies for the terminal.
type MarkdownRenderer func(string) string

// NewMarkdownRenderer wraps glamour at the given width. If glamour cannot be
// initialised the text is returned unchanged.
func NewMarkdownRenderer(width int) MarkdownRenderer {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return PlainRenderer
	}
	return func(markdown string) string {
		out, err := r.Render(markdown)
		if err != nil {
			return markdown
		}
		return strings.Trim(out, "\n")
	}
}

func PlainRenderer(text string) string {
	return text
}
