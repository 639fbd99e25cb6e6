package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/CircuiTech/internal/config"
	"github.com/Rorical/CircuiTech/internal/dispatcher"
	"github.com/Rorical/CircuiTech/internal/eventbus"
	"github.com/Rorical/CircuiTech/internal/logging"
	"github.com/Rorical/CircuiTech/internal/metrics"
	"github.com/Rorical/CircuiTech/internal/models"
)

func loadConfig(t *testing.T, body string) *config.Config {
	t.Helper()
	t.Setenv("CIRCUITECH_API_KEY", "")
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	cfg, err := config.LoadConfigFrom(path)
	require.NoError(t, err)
	return cfg
}

func TestNewGateway(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	httpCfg := loadConfig(t, `{"active_profile": "a", "profiles": {"a": {"mode": "http"}}}`)
	gw, err := NewGateway(httpCfg, "sid", m)
	require.NoError(t, err)
	assert.NotNil(t, gw)

	directCfg := loadConfig(t, `{"active_profile": "a", "profiles": {"a": {"mode": "direct", "api_key": "k"}}}`)
	gw, err = NewGateway(directCfg, "sid", m)
	require.NoError(t, err)
	assert.NotNil(t, gw)
}

func TestWelcomeNotices(t *testing.T) {
	ready := loadConfig(t, `{"active_profile": "lab", "profiles": {"lab": {"mode": "http"}}}`)
	notices := strings.Join(welcomeNotices(ready), "\n")
	assert.Contains(t, notices, "Active Profile: lab (http) [OK]")

	notReady := loadConfig(t, `{"active_profile": "lab", "profiles": {"lab": {"mode": "direct"}}}`)
	notices = strings.Join(welcomeNotices(notReady), "\n")
	assert.Contains(t, notices, "[NOT CONFIGURED]")
	assert.Contains(t, notices, "circuitech profile add")
}

func TestNewApplication(t *testing.T) {
	cfg := loadConfig(t, `{"active_profile": "a", "profiles": {"a": {"mode": "http"}}}`)

	application, err := NewApplication(cfg, logging.NewNop(), Options{MetricsAddr: "127.0.0.1:0"})
	require.NoError(t, err)
	require.NotNil(t, application.metricsServer)

	initial := application.model.appModel
	assert.Equal(t, application.service.Store().SessionID(), initial.SessionID)
	assert.Equal(t, models.ViewBOM, initial.ActiveView)
	assert.True(t, initial.ChatServiceReady)
	assert.NotEmpty(t, initial.Notices)

	application.Stop()
}

func TestAppModel_UpdateAndView(t *testing.T) {
	eb := eventbus.NewEventBus()
	defer eb.Close()
	m := &AppModel{
		appModel:   models.AppModel{ActiveView: models.ViewBOM, ChatServiceReady: true, Notices: []string{"welcome"}},
		dispatcher: dispatcher.NewEventDispatcher(eb),
	}

	snap := models.SessionSnapshot{
		SessionID:   "sid",
		ChatHistory: []models.ChatMessage{models.NewUserMessage("weather station"), models.NewAssistantMessage("Here you go.")},
		CurrentBom:  []models.BomItem{{PartNumber: "BME280", Quantity: 1, EstimatedCost: 4.5}},
		ActiveView:  models.ViewBOM,
	}
	_, cmd := m.Update(dispatcher.CoreEventMsg{Event: eventbus.StateUpdateEvent{Snapshot: snap}})
	assert.NotNil(t, cmd)

	_, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	require.NotNil(t, m.render)

	view := m.View()
	assert.Contains(t, view, "welcome")
	assert.Contains(t, view, "You: weather station")
	assert.Contains(t, view, "BME280")
	assert.Contains(t, view, "1 parts · $4.50")
	assert.Contains(t, view, "Ready")
}
