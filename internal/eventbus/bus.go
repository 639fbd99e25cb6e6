package eventbus

import (
	"errors"
	"sync"
	"time"

	"github.com/Rorical/CircuiTech/internal/models"
)

var (
	ErrClosed      = errors.New("event bus is closed")
	ErrCircuitOpen = errors.New("circuit breaker is open")
	ErrBufferFull  = errors.New("event buffer is full")
)

// UIEvent represents events sent from UI to Core
type UIEvent interface {
	UIEvent()
}

// CoreEvent represents events sent from Core to UI
type CoreEvent interface {
	CoreEvent()
}

// SubmitMessageEvent - UI submits a chat message
type SubmitMessageEvent struct {
	Message string
}

func (e SubmitMessageEvent) UIEvent() {}

// RequestPinMapEvent - UI asks for a pin map of the current BOM
type RequestPinMapEvent struct{}

func (e RequestPinMapEvent) UIEvent() {}

// SelectViewEvent - UI switches the dashboard tab
type SelectViewEvent struct {
	View models.View
}

func (e SelectViewEvent) UIEvent() {}

// ResetSessionEvent - UI clears the design session
type ResetSessionEvent struct{}

func (e ResetSessionEvent) UIEvent() {}

// StateUpdateEvent - Core pushes a full session snapshot to UI
type StateUpdateEvent struct {
	Snapshot models.SessionSnapshot
}

func (e StateUpdateEvent) CoreEvent() {}

// EventBusError represents errors in event processing
type EventBusError struct {
	Operation string
	Err       error
	Timestamp time.Time
}

func (e EventBusError) Error() string {
	return e.Operation + ": " + e.Err.Error()
}

func (e EventBusError) Unwrap() error {
	return e.Err
}

// CircuitBreakerState represents the state of circuit breaker
type CircuitBreakerState int

const (
	CircuitClosed CircuitBreakerState = iota
	CircuitOpen
	CircuitHalfOpen
)

// CircuitBreaker implements circuit breaker pattern. Safe for concurrent use:
// core events are sent from every in-flight operation.
type CircuitBreaker struct {
	mu              sync.Mutex
	maxFailures     int
	resetTimeout    time.Duration
	failureCount    int
	lastFailureTime time.Time
	state           CircuitBreakerState
}

func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        CircuitClosed,
	}
}

func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == CircuitOpen {
		// Check if we should transition to half-open
		if time.Since(cb.lastFailureTime) > cb.resetTimeout {
			cb.state = CircuitHalfOpen
		}
	}
	return cb.state == CircuitOpen
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount = 0
	cb.state = CircuitClosed
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount++
	cb.lastFailureTime = time.Now()

	if cb.failureCount >= cb.maxFailures {
		cb.state = CircuitOpen
	}
}

func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// EventBus handles communication between UI and Core with circuit breaker.
// State updates bypass the breaker: they travel on a single-slot channel
// where a newer snapshot replaces one the UI has not read yet.
type EventBus struct {
	mu             sync.RWMutex
	closed         bool
	uiToCore       chan UIEvent
	coreToUI       chan CoreEvent
	stateMu        sync.Mutex
	state          chan StateUpdateEvent
	errorCallback  func(EventBusError)
	circuitBreaker *CircuitBreaker
}

func NewEventBus() *EventBus {
	return NewEventBusWithBuffer(100)
}

func NewEventBusWithBuffer(size int) *EventBus {
	return &EventBus{
		uiToCore:       make(chan UIEvent, size),
		coreToUI:       make(chan CoreEvent, size),
		state:          make(chan StateUpdateEvent, 1),
		circuitBreaker: NewCircuitBreaker(5, 30*time.Second),
	}
}

func (eb *EventBus) SetErrorCallback(callback func(EventBusError)) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.errorCallback = callback
}

func (eb *EventBus) reportError(operation string, err error) {
	if eb.errorCallback != nil {
		eb.errorCallback(EventBusError{
			Operation: operation,
			Err:       err,
			Timestamp: time.Now(),
		})
	}
}

// send never blocks: a full buffer is a failure that counts against the
// breaker. Sends rejected by an open breaker are reported but not counted,
// so the breaker can half-open while callers keep trying.
func send[E any](eb *EventBus, operation string, ch chan E, event E) error {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	if eb.closed {
		return ErrClosed
	}
	if eb.circuitBreaker.IsOpen() {
		eb.reportError(operation, ErrCircuitOpen)
		return ErrCircuitOpen
	}

	select {
	case ch <- event:
		eb.circuitBreaker.RecordSuccess()
		return nil
	default:
		eb.circuitBreaker.RecordFailure()
		eb.reportError(operation, ErrBufferFull)
		return ErrBufferFull
	}
}

// publishState replaces any unread snapshot with update. It never fails
// while the bus is open.
func (eb *EventBus) publishState(update StateUpdateEvent) error {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	if eb.closed {
		return ErrClosed
	}

	eb.stateMu.Lock()
	defer eb.stateMu.Unlock()
	select {
	case <-eb.state:
	default:
	}
	eb.state <- update
	return nil
}

func (eb *EventBus) SendToCore(event UIEvent) error {
	return send(eb, "SendToCore", eb.uiToCore, event)
}

func (eb *EventBus) SendToUI(event CoreEvent) error {
	if update, ok := event.(StateUpdateEvent); ok {
		return eb.publishState(update)
	}
	return send(eb, "SendToUI", eb.coreToUI, event)
}

func (eb *EventBus) UIToCore() <-chan UIEvent {
	return eb.uiToCore
}

func (eb *EventBus) CoreToUI() <-chan CoreEvent {
	return eb.coreToUI
}

// StateUpdates yields the latest session snapshot not yet read.
func (eb *EventBus) StateUpdates() <-chan StateUpdateEvent {
	return eb.state
}

func (eb *EventBus) GetCircuitBreakerState() CircuitBreakerState {
	return eb.circuitBreaker.State()
}

// Close closes every channel. Sends after Close return ErrClosed.
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	if eb.closed {
		return
	}
	eb.closed = true
	close(eb.uiToCore)
	close(eb.coreToUI)
	close(eb.state)
}
