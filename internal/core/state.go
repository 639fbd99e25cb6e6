package core

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rorical/CircuiTech/internal/gateway"
	"github.com/Rorical/CircuiTech/internal/logging"
	"github.com/Rorical/CircuiTech/internal/models"
)

// FallbackReply is appended as the assistant turn when the backend cannot be
// reached or answers with garbage.
const FallbackReply = "Sorry, I had trouble reaching the sourcing backend. Please ensure the server is running."

// Observer receives a snapshot after every state change, in mutation order.
// Observers run synchronously and must not call mutating store methods.
type Observer func(models.SessionSnapshot)

// NewSessionID returns an opaque, process-lifetime session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// SessionStore is the single owner of the design session. All mutations go
// through its methods; reads return copies.
//
// Busy is tracked per operation class. A chat turn and a pin-map request may
// be in flight together and settle in any order; a second call of the same
// class while one is in flight is dropped, not queued.
type SessionStore struct {
	mu      sync.RWMutex
	gateway gateway.Gateway
	logger  *zap.Logger

	sessionID      string
	chatHistory    []models.ChatMessage
	currentBom     []models.BomItem
	pinConnections []models.Connection
	activeView     models.View
	chatBusy       bool
	pinMapBusy     bool
	bomGeneration  uint64
	pinMapGen      uint64
	// epoch increments on reset; results of calls started in an older epoch
	// are dropped.
	epoch uint64

	notifyMu  sync.Mutex
	observers []Observer
}

type Option func(*SessionStore)

func WithLogger(logger *zap.Logger) Option {
	return func(s *SessionStore) {
		s.logger = logger
	}
}

func WithSessionID(id string) Option {
	return func(s *SessionStore) {
		s.sessionID = id
	}
}

func WithObserver(obs Observer) Option {
	return func(s *SessionStore) {
		s.observers = append(s.observers, obs)
	}
}

func NewSessionStore(gw gateway.Gateway, opts ...Option) *SessionStore {
	s := &SessionStore{
		gateway:        gw,
		logger:         logging.NewNop(),
		chatHistory:    []models.ChatMessage{},
		currentBom:     []models.BomItem{},
		pinConnections: []models.Connection{},
		activeView:     models.ViewBOM,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sessionID == "" {
		s.sessionID = NewSessionID()
	}
	s.logger = s.logger.With(zap.String("session_id", s.sessionID))
	return s
}

// Subscribe registers an observer for subsequent changes.
func (s *SessionStore) Subscribe(obs Observer) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.observers = append(s.observers, obs)
}

func (s *SessionStore) SessionID() string {
	return s.sessionID
}

func (s *SessionStore) Snapshot() models.SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *SessionStore) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chatBusy || s.pinMapBusy
}

func (s *SessionStore) snapshotLocked() models.SessionSnapshot {
	history := make([]models.ChatMessage, len(s.chatHistory))
	copy(history, s.chatHistory)
	return models.SessionSnapshot{
		SessionID:        s.sessionID,
		ChatHistory:      history,
		CurrentBom:       models.CloneBom(s.currentBom),
		PinConnections:   models.CloneConnections(s.pinConnections),
		ActiveView:       s.activeView,
		Busy:             s.chatBusy || s.pinMapBusy,
		ChatBusy:         s.chatBusy,
		PinMapBusy:       s.pinMapBusy,
		BomGeneration:    s.bomGeneration,
		PinMapGeneration: s.pinMapGen,
	}
}

// commit applies mutate under the write lock and, if it reports a change,
// notifies observers. notifyMu is taken before the state lock is released so
// observers see snapshots in the order the mutations happened.
func (s *SessionStore) commit(mutate func() bool) bool {
	s.mu.Lock()
	if !mutate() {
		s.mu.Unlock()
		return false
	}
	snap := s.snapshotLocked()
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, obs := range s.observers {
		obs(snap)
	}
	return true
}

// replaceBomLocked swaps the BOM wholesale and clears the pin map derived
// from the previous one.
func (s *SessionStore) replaceBomLocked(items []models.BomItem) {
	s.currentBom = models.CloneBom(items)
	s.bomGeneration++
	s.pinConnections = []models.Connection{}
	s.pinMapGen = s.bomGeneration
}

// SubmitMessage runs one chat turn. The trimmed text is appended as a user
// message before the backend is contacted; the reply, or FallbackReply on
// failure, is appended once the call settles, and only then is the chat
// class marked idle. Empty input, or a turn already in flight, makes this a
// no-op; the return value reports whether the turn ran.
func (s *SessionStore) SubmitMessage(ctx context.Context, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	var (
		history []models.ChatMessage
		epoch   uint64
	)
	started := s.commit(func() bool {
		if s.chatBusy {
			return false
		}
		history = make([]models.ChatMessage, len(s.chatHistory))
		copy(history, s.chatHistory)
		s.chatHistory = append(s.chatHistory, models.NewUserMessage(text))
		s.chatBusy = true
		epoch = s.epoch
		return true
	})
	if !started {
		s.logger.Debug("chat turn already in flight, message dropped")
		return false
	}

	result, err := s.gateway.Converse(ctx, text, history)
	if err == nil && result == nil {
		err = errors.New("converse returned no result")
	}

	s.commit(func() bool {
		if s.epoch != epoch {
			s.logger.Info("session reset while chat turn was in flight, reply dropped")
			return false
		}
		if err != nil {
			s.logger.Warn("chat turn failed", zap.String("operation", gateway.OpConverse), zap.Error(err))
			s.chatHistory = append(s.chatHistory, models.NewAssistantMessage(FallbackReply))
		} else {
			s.chatHistory = append(s.chatHistory, models.NewAssistantMessage(result.Reply))
			if result.Bom != nil {
				s.replaceBomLocked(result.Bom)
				s.logger.Info("bom replaced",
					zap.Int("items", len(result.Bom)),
					zap.Uint64("generation", s.bomGeneration))
			}
		}
		s.chatBusy = false
		return true
	})
	return true
}

// RequestPinMap derives a pin map for the current BOM. The view switches to
// the pin map together with the busy flag. On failure the previous pin map is
// kept and the error is only logged. A result computed from a BOM that was
// replaced meanwhile is dropped. No-op when the BOM is empty or a pin-map
// request is already in flight.
func (s *SessionStore) RequestPinMap(ctx context.Context) bool {
	var (
		items      []models.BomItem
		generation uint64
		epoch      uint64
	)
	started := s.commit(func() bool {
		if len(s.currentBom) == 0 || s.pinMapBusy {
			return false
		}
		items = models.CloneBom(s.currentBom)
		generation = s.bomGeneration
		epoch = s.epoch
		s.pinMapBusy = true
		s.activeView = models.ViewPinMap
		return true
	})
	if !started {
		s.logger.Debug("pin map request skipped")
		return false
	}

	conns, err := s.gateway.DerivePinMap(ctx, items)

	s.commit(func() bool {
		if s.epoch != epoch {
			s.logger.Info("session reset while pin map was in flight, result dropped")
			return false
		}
		switch {
		case err != nil:
			s.logger.Warn("pin map generation failed",
				zap.String("operation", gateway.OpDerivePinMap),
				zap.Uint64("generation", generation),
				zap.Error(err))
		case generation != s.bomGeneration:
			s.logger.Info("bom changed while pin map was in flight, result dropped",
				zap.Uint64("generation", generation),
				zap.Uint64("current_generation", s.bomGeneration))
		default:
			s.pinConnections = models.CloneConnections(conns)
			s.pinMapGen = generation
		}
		s.pinMapBusy = false
		return true
	})
	return true
}

// SelectView switches the dashboard tab. Unknown views are ignored.
func (s *SessionStore) SelectView(view models.View) {
	if !view.Valid() {
		return
	}
	s.commit(func() bool {
		if s.activeView == view {
			return false
		}
		s.activeView = view
		return true
	})
}

// ResetSession returns the session to its initial state, keeping the
// session id. Calls still in flight settle into nothing.
func (s *SessionStore) ResetSession() {
	s.commit(func() bool {
		s.chatHistory = []models.ChatMessage{}
		s.currentBom = []models.BomItem{}
		s.pinConnections = []models.Connection{}
		s.pinMapGen = s.bomGeneration
		s.activeView = models.ViewBOM
		s.chatBusy = false
		s.pinMapBusy = false
		s.epoch++
		return true
	})
	s.logger.Info("session reset")
}
