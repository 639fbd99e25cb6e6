package update

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/CircuiTech/internal/dispatcher"
	"github.com/Rorical/CircuiTech/internal/eventbus"
	"github.com/Rorical/CircuiTech/internal/models"
	"github.com/Rorical/CircuiTech/ui/keys"
)

// HandleKeyMsgWithEventBus handles keyboard input using event bus
func HandleKeyMsgWithEventBus(appModel *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus, chatReady bool) tea.Cmd {
	km := keys.Default
	switch {
	case key.Matches(keyMsg, km.Quit):
		return tea.Quit
	case key.Matches(keyMsg, km.Send):
		if strings.TrimSpace(appModel.Input) == "" {
			return nil
		}
		if !chatReady {
			appModel.Input = ""
			appModel.Status = "Backend not configured"
			return nil
		}
		// Input stays put while a turn is in flight
		if appModel.Loading {
			return nil
		}
		if err := eb.SendToCore(eventbus.SubmitMessageEvent{Message: appModel.Input}); err != nil {
			appModel.Status = "Error sending message: " + err.Error()
			return nil
		}
		appModel.Input = ""
	case key.Matches(keyMsg, km.View):
		sendOrReport(appModel, eb, eventbus.SelectViewEvent{View: appModel.ActiveView.Toggle()})
	case key.Matches(keyMsg, km.PinMap):
		if !chatReady {
			appModel.Status = "Backend not configured"
			return nil
		}
		if len(appModel.Bom) == 0 || appModel.Loading {
			return nil
		}
		sendOrReport(appModel, eb, eventbus.RequestPinMapEvent{})
	case key.Matches(keyMsg, km.Reset):
		sendOrReport(appModel, eb, eventbus.ResetSessionEvent{})
	case key.Matches(keyMsg, km.Backspace):
		if len(appModel.Input) > 0 {
			runes := []rune(appModel.Input)
			appModel.Input = string(runes[:len(runes)-1])
		}
	case keyMsg.Type == tea.KeySpace:
		appModel.Input += " "
	case keyMsg.Type == tea.KeyRunes:
		appModel.Input += string(keyMsg.Runes)
	}
	return nil
}

func sendOrReport(appModel *models.AppModel, eb *eventbus.EventBus, event eventbus.UIEvent) {
	if err := eb.SendToCore(event); err != nil {
		appModel.Status = "Error: " + err.Error()
	}
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(appModel *models.AppModel, coreEventMsg dispatcher.CoreEventMsg) tea.Cmd {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.StateUpdateEvent:
		snap := event.Snapshot
		appModel.SessionID = snap.SessionID
		appModel.Messages = snap.ChatHistory
		appModel.Bom = snap.CurrentBom
		appModel.Connections = snap.PinConnections
		appModel.ActiveView = snap.ActiveView
		appModel.Loading = snap.Busy
		appModel.PinMapLoading = snap.PinMapBusy

		switch {
		case snap.ChatBusy && snap.PinMapBusy:
			appModel.Status = "Sourcing parts and mapping pins"
		case snap.ChatBusy:
			appModel.Status = "Sourcing parts"
		case snap.PinMapBusy:
			appModel.Status = "Generating pin map"
		default:
			appModel.Status = "Ready"
		}
	}

	return nil
}

type TickMsg time.Time

func TickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
}

func HandleTickMsg(appModel *models.AppModel) tea.Cmd {
	// Only handle UI animations - loading dots
	if appModel.Loading {
		appModel.LoadingDots = (appModel.LoadingDots + 1) % 4
	}
	return TickCmd()
}
