package core

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Rorical/CircuiTech/internal/eventbus"
	"github.com/Rorical/CircuiTech/internal/logging"
	"github.com/Rorical/CircuiTech/internal/models"
)

// Service connects the event bus to the session store: UI events become store
// operations, store changes become StateUpdateEvents.
type Service struct {
	store    *SessionStore
	eventBus *eventbus.EventBus
	logger   *zap.Logger
	ready    bool
	ctx      context.Context
	cancel   context.CancelFunc
	inFlight sync.WaitGroup
}

// NewService wires store to eb. ready reports whether a backend is configured;
// when false, chat and pin-map events are ignored.
func NewService(store *SessionStore, eb *eventbus.EventBus, ready bool, logger *zap.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	service := &Service{
		store:    store,
		eventBus: eb,
		logger:   logger,
		ready:    ready,
		ctx:      ctx,
		cancel:   cancel,
	}
	store.Subscribe(service.pushStateToUI)
	return service
}

// Start sends the initial state and runs the event loop in a goroutine.
func (cs *Service) Start() {
	cs.pushStateToUI(cs.store.Snapshot())
	go cs.eventLoop()
}

// Stop ends the event loop and waits for in-flight backend calls to settle.
func (cs *Service) Stop() {
	cs.cancel()
	cs.inFlight.Wait()
}

func (cs *Service) IsReady() bool {
	return cs.ready
}

func (cs *Service) Store() *SessionStore {
	return cs.store
}

func (cs *Service) eventLoop() {
	for {
		select {
		case <-cs.ctx.Done():
			return
		case event, ok := <-cs.eventBus.UIToCore():
			if !ok {
				return
			}
			cs.handleUIEvent(event)
		}
	}
}

// handleUIEvent runs backend operations on their own goroutine so the loop
// stays responsive; the store decides whether an operation may start.
func (cs *Service) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.SubmitMessageEvent:
		if !cs.ready {
			return
		}
		cs.goOperation(func(ctx context.Context) { cs.store.SubmitMessage(ctx, e.Message) })
	case eventbus.RequestPinMapEvent:
		if !cs.ready {
			return
		}
		cs.goOperation(func(ctx context.Context) { cs.store.RequestPinMap(ctx) })
	case eventbus.SelectViewEvent:
		cs.store.SelectView(e.View)
	case eventbus.ResetSessionEvent:
		cs.store.ResetSession()
	}
}

func (cs *Service) goOperation(op func(ctx context.Context)) {
	cs.inFlight.Add(1)
	go func() {
		defer cs.inFlight.Done()
		op(cs.ctx)
	}()
}

func (cs *Service) pushStateToUI(snap models.SessionSnapshot) {
	if err := cs.eventBus.SendToUI(eventbus.StateUpdateEvent{Snapshot: snap}); err != nil {
		cs.logger.Warn("failed to send state to UI", zap.Error(err))
	}
}
