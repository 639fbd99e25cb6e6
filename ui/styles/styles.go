package styles

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("42")  // emerald
	muted  = lipgloss.Color("245")
	border = lipgloss.Color("238")
)

func InputStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Width(max(width-4, 10))
}

func StatusStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Background(lipgloss.Color("235")).
		Padding(0, 1).
		Width(width)
}

func UserStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color("39")).
		Padding(0, 1).
		MarginLeft(2)
}

func AssistantStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color("214")).
		Padding(0, 1).
		MarginLeft(2)
}

func ProgramStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("141")).
		Bold(true).
		Padding(0, 2).
		Align(lipgloss.Center)
}

func HeaderStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255")).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(border).
		Width(width)
}

func BadgeStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(muted).
		Background(lipgloss.Color("234")).
		Padding(0, 1)
}

func ActiveTabStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(accent).
		Background(lipgloss.Color("236")).
		Bold(true).
		Padding(0, 2)
}

func TabStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(muted).
		Padding(0, 2)
}

func TableHeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(muted).
		Bold(true).
		Padding(0, 1)
}

func TableCellStyle() lipgloss.Style {
	return lipgloss.NewStyle().Padding(0, 1)
}

func TableBorderStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(border)
}

func SignalStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(accent).Padding(0, 1)
}

func HintStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(muted).
		Italic(true).
		Padding(1, 2)
}
