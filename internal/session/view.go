package session

import (
	"context"
	"sync"

	"github.com/soyeahso/lingochat/internal/domain"
)

// View holds the single live Manager of a chat view. Activating it again,
// for example after the display name or language changed, tears the prior
// connection down before the next one is opened.
type View struct {
	newManager func() *Manager

	mu      sync.Mutex
	current *Manager
}

// NewView creates a view that builds managers with newManager.
func NewView(newManager func() *Manager) *View {
	return &View{newManager: newManager}
}

// Activate closes the current manager, waits for its background work to stop,
// then begins a new one for a fresh identity. It must not be called from a
// session event handler.
func (v *View) Activate(ctx context.Context, displayName, language string) (*Manager, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.current != nil {
		v.current.Close()
		<-v.current.Done()
		v.current = nil
	}

	m := v.newManager()
	if err := m.Begin(ctx, domain.NewIdentity(displayName, language)); err != nil {
		return nil, err
	}
	v.current = m
	return m, nil
}

// Current returns the live manager, or nil before the first activation.
func (v *View) Current() *Manager {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Close tears down the current manager. It is safe to call repeatedly.
func (v *View) Close() {
	v.mu.Lock()
	m := v.current
	v.mu.Unlock()
	if m != nil {
		m.Close()
	}
}
