package chat

import (
	"sync"

	"github.com/soyeahso/lingochat/internal/domain"
)

// Append returns history with msg added at the end. It never reorders and
// never deduplicates by id.
func Append(history []domain.ChatMessage, msg domain.ChatMessage) []domain.ChatMessage {
	return append(history, msg)
}

// History is the arrival-ordered message log of one session. It has a single
// writer (the session's inbound handler); readers take snapshots.
type History struct {
	mu   sync.RWMutex
	msgs []domain.ChatMessage
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Append adds msg and returns the new length.
func (h *History) Append(msg domain.ChatMessage) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = Append(h.msgs, msg)
	return len(h.msgs)
}

// Len returns the number of messages.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.msgs)
}

// Snapshot returns a copy of the messages in arrival order.
func (h *History) Snapshot() []domain.ChatMessage {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]domain.ChatMessage, len(h.msgs))
	copy(out, h.msgs)
	return out
}
