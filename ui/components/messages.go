package components

import (
	"strings"

	"github.com/Rorical/CircuiTech/internal/models"
	"github.com/Rorical/CircuiTech/ui/styles"
)

func RenderMessages(notices []string, messages []models.ChatMessage, render MarkdownRenderer) string {
	var b strings.Builder

	if render == nil {
		render = PlainRenderer
	}
	userStyle := styles.UserStyle()
	assistantStyle := styles.AssistantStyle()
	programStyle := styles.ProgramStyle()

	for _, notice := range notices {
		b.WriteString(programStyle.Render(notice) + "\n")
	}
	if len(notices) > 0 {
		b.WriteString("\n")
	}

	for _, msg := range messages {
		switch msg.Role {
		case models.User:
			b.WriteString(userStyle.Render("You: "+msg.Content) + "\n\n")
		case models.Assistant:
			b.WriteString(assistantStyle.Render("Co-Pilot: "+render(msg.Content)) + "\n\n")
		}
	}

	return b.String()
}
