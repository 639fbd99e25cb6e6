package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Rorical/CircuiTech/internal/agent"
	"github.com/Rorical/CircuiTech/internal/config"
	"github.com/Rorical/CircuiTech/internal/core"
	"github.com/Rorical/CircuiTech/internal/dispatcher"
	"github.com/Rorical/CircuiTech/internal/eventbus"
	"github.com/Rorical/CircuiTech/internal/gateway"
	"github.com/Rorical/CircuiTech/internal/metrics"
	"github.com/Rorical/CircuiTech/internal/models"
	"github.com/Rorical/CircuiTech/ui/components"
)

// Application manages the complete application lifecycle
type Application struct {
	config        *config.Config
	logger        *zap.Logger
	eventBus      *eventbus.EventBus
	dispatcher    *dispatcher.EventDispatcher
	service       *core.Service
	model         *AppModel
	metricsServer *http.Server
}

type Options struct {
	// MetricsAddr, when set, serves Prometheus metrics on this address.
	MetricsAddr string
}

func NewApplication(cfg *config.Config, logger *zap.Logger, opts Options) (*Application, error) {
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	sessionID := core.NewSessionID()
	gw, err := NewGateway(cfg, sessionID, m)
	if err != nil {
		return nil, err
	}

	eb := eventbus.NewEventBus()
	eb.SetErrorCallback(func(e eventbus.EventBusError) {
		logger.Warn("event bus error", zap.String("operation", e.Operation), zap.Error(e.Err))
	})
	disp := dispatcher.NewEventDispatcher(eb)

	store := core.NewSessionStore(gw,
		core.WithSessionID(sessionID),
		core.WithLogger(logger))
	service := core.NewService(store, eb, cfg.IsValid(), logger)

	logger.Info("session started",
		zap.String("session_id", sessionID),
		zap.String("profile", cfg.ActiveProfile),
		zap.String("mode", cfg.GetMode()))

	application := &Application{
		config:     cfg,
		logger:     logger,
		eventBus:   eb,
		dispatcher: disp,
		service:    service,
		model: &AppModel{
			appModel:   createInitialAppModel(cfg, sessionID),
			dispatcher: disp,
			render:     components.NewMarkdownRenderer(80),
		},
	}

	if opts.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		application.metricsServer = &http.Server{Addr: opts.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	}
	return application, nil
}

// NewGateway picks the backend transport for the active profile and
// instruments it.
func NewGateway(cfg *config.Config, sessionID string, m *metrics.Metrics) (gateway.Gateway, error) {
	var gw gateway.Gateway
	switch cfg.GetMode() {
	case config.ModeDirect:
		client := agent.NewClient(cfg.GetAPIKey(), cfg.GetBaseURL())
		gw = gateway.NewDirectGateway(client, cfg.GetModel(), sessionID)
	case config.ModeHTTP:
		gw = gateway.NewHTTPGateway(cfg.GetBaseURL(), sessionID, gateway.WithTimeout(cfg.GetRequestTimeout()))
	default:
		return nil, fmt.Errorf("unknown backend mode %q", cfg.GetMode())
	}
	return gateway.Instrument(gw, m), nil
}

func (app *Application) Start() error {
	if app.metricsServer != nil {
		go func() {
			if err := app.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				app.logger.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	app.service.Start()

	// Run UI
	p := tea.NewProgram(app.model, tea.WithAltScreen())
	_, err := p.Run()

	return err
}

func (app *Application) Stop() {
	app.service.Stop()
	app.eventBus.Close()
	if app.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = app.metricsServer.Shutdown(ctx)
	}
	_ = app.logger.Sync()
}

func createInitialAppModel(cfg *config.Config, sessionID string) models.AppModel {
	// Conversation and BOM come from core as single source of truth
	return models.AppModel{
		SessionID:        sessionID,
		Messages:         make([]models.ChatMessage, 0),
		Notices:          welcomeNotices(cfg),
		ActiveView:       models.ViewBOM,
		Status:           "Ready",
		ChatServiceReady: cfg.IsValid(),
	}
}

func welcomeNotices(cfg *config.Config) []string {
	notices := []string{"-- CIRCUITECH CO-PILOT --"}

	if cfg.IsValid() {
		notices = append(notices,
			fmt.Sprintf("Active Profile: %s (%s) [OK]", cfg.ActiveProfile, cfg.GetMode()),
			"Describe your embedded design and press Enter")
	} else {
		notices = append(notices,
			fmt.Sprintf("Active Profile: %s [NOT CONFIGURED]", cfg.ActiveProfile),
			"Configure your profile to start designing:",
			"• Run: circuitech profile add <name>",
			"• Or edit: "+cfg.Path())
	}
	return notices
}
