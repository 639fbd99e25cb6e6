package components

import (
	"github.com/Rorical/CircuiTech/ui/styles"
)

func RenderInput(input string, loading bool, width int) string {
	inputStyle := styles.InputStyle(width)
	if loading && input == "" {
		return inputStyle.Render("waiting for the Co-Pilot...")
	}
	return inputStyle.Render("> " + input)
}
