// Package hooks dispatches chat session events to subscribers.
package hooks

import (
	"context"
	"sync"

	"github.com/soyeahso/lingochat/internal/domain"
	"github.com/soyeahso/lingochat/internal/logging"
)

// Event names published by a chat session.
const (
	EventSessionStart    = "session_start"
	EventStateChanged    = "state_changed"
	EventMessageReceived = "message_received"
	EventMessageSent     = "message_sent"
	EventFrameDropped    = "frame_dropped"
	EventSessionEnd      = "session_end"
)

// AllEvents lists all known hook event names.
var AllEvents = []string{
	EventSessionStart,
	EventStateChanged,
	EventMessageReceived,
	EventMessageSent,
	EventFrameDropped,
	EventSessionEnd,
}

// Payload carries event data to hook handlers. Only the fields relevant to
// the event are set.
type Payload struct {
	Event     string                 `json:"event"`
	SessionID string                 `json:"sessionId,omitempty"`
	State     domain.ConnectionState `json:"state,omitempty"`
	Message   *domain.ChatMessage    `json:"message,omitempty"`
	Text      string                 `json:"text,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// Handler is a function that handles a hook event.
// Returning an error logs the failure but does not stop processing.
type Handler func(ctx context.Context, p Payload) error

// Manager manages hook registrations and dispatches events.
type Manager struct {
	mu       sync.RWMutex
	handlers map[string][]namedHandler
	log      *logging.Logger
}

type namedHandler struct {
	name    string
	handler Handler
}

// NewManager creates a hook manager.
func NewManager(log *logging.Logger) *Manager {
	return &Manager{
		handlers: make(map[string][]namedHandler),
		log:      log.Sub("hooks"),
	}
}

// On registers a handler for the given event.
// The name identifies the handler for logging and Off.
func (m *Manager) On(event, name string, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[event] = append(m.handlers[event], namedHandler{name: name, handler: handler})
	m.log.Debug().Str("event", event).Str("handler", name).Msg("hook registered")
}

// Off removes all handlers with the given name from the event.
func (m *Manager) Off(event, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	handlers := m.handlers[event]
	filtered := make([]namedHandler, 0, len(handlers))
	for _, h := range handlers {
		if h.name != name {
			filtered = append(filtered, h)
		}
	}
	m.handlers[event] = filtered
}

// Emit dispatches p to all handlers registered for p.Event, synchronously
// and in registration order, on the caller's goroutine. Errors are logged
// but do not prevent subsequent handlers from running.
func (m *Manager) Emit(ctx context.Context, p Payload) {
	m.mu.RLock()
	handlers := make([]namedHandler, len(m.handlers[p.Event]))
	copy(handlers, m.handlers[p.Event])
	m.mu.RUnlock()

	for _, h := range handlers {
		if err := h.handler(ctx, p); err != nil {
			m.log.Warn().
				Err(err).
				Str("event", p.Event).
				Str("handler", h.name).
				Msg("hook handler error")
		}
	}
}

// Count returns the number of handlers registered for an event.
func (m *Manager) Count(event string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handlers[event])
}

// Events returns the list of events that have at least one handler registered.
func (m *Manager) Events() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]string, 0, len(m.handlers))
	for event, handlers := range m.handlers {
		if len(handlers) > 0 {
			events = append(events, event)
		}
	}
	return events
}
