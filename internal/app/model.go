package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/CircuiTech/internal/dispatcher"
	"github.com/Rorical/CircuiTech/internal/models"
	"github.com/Rorical/CircuiTech/internal/update"
	"github.com/Rorical/CircuiTech/ui/components"
)

type AppModel struct {
	appModel   models.AppModel
	dispatcher *dispatcher.EventDispatcher
	render     components.MarkdownRenderer
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		update.TickCmd(),
		m.dispatcher.ListenForCoreEvents(),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle core events and continue listening
	if coreEvent, ok := msg.(dispatcher.CoreEventMsg); ok {
		cmd := update.HandleCoreEvent(&m.appModel, coreEvent)
		return m, tea.Batch(cmd, m.dispatcher.ListenForCoreEvents())
	}

	if size, ok := msg.(tea.WindowSizeMsg); ok && size.Width != m.appModel.Width {
		m.render = components.NewMarkdownRenderer(size.Width - 8)
	}

	eventBus := m.dispatcher.GetEventBus()
	chatReady := m.appModel.ChatServiceReady
	cmd := update.HandleUpdateWithEventBus(&m.appModel, msg, eventBus, chatReady)

	return m, cmd
}

func (m *AppModel) View() string {
	var b strings.Builder

	b.WriteString(components.RenderDashboard(components.ViewModel{
		Bom:           m.appModel.Bom,
		Connections:   m.appModel.Connections,
		ActiveView:    m.appModel.ActiveView,
		PinMapLoading: m.appModel.PinMapLoading,
		Width:         m.appModel.Width,
	}))
	b.WriteString("\n\n")
	b.WriteString(components.RenderMessages(m.appModel.Notices, m.appModel.Messages, m.render))
	b.WriteString(components.RenderInput(m.appModel.Input, m.appModel.Loading, m.appModel.Width))
	b.WriteString("\n")
	b.WriteString(components.RenderStatus(m.appModel.Status, m.appModel.Loading, m.appModel.LoadingDots, m.appModel.Width))

	return b.String()
}
