// Package session owns the connection between one chat view and the chat
// service: identity, lifecycle, outgoing messages and the inbound history.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/soyeahso/lingochat/internal/chat"
	"github.com/soyeahso/lingochat/internal/domain"
	"github.com/soyeahso/lingochat/internal/hooks"
	"github.com/soyeahso/lingochat/internal/logging"
	"github.com/soyeahso/lingochat/internal/metrics"
)

// HandshakePayload is sent once, immediately after the connection opens, so
// the service can recognize a live session.
const HandshakePayload = "Hi!, 大家好!"

var (
	ErrNotConnected = errors.New("not connected")
	ErrAlreadyBegun = errors.New("session already begun")
)

// Manager owns one connection for the lifetime of a chat view. A Manager is
// single use: once Closed, a new Manager is needed to reconnect.
type Manager struct {
	url     string
	dialer  Dialer
	bus     *hooks.Manager
	metrics *metrics.Metrics
	log     *logging.Logger
	history *chat.History
	done    chan struct{}
	settled chan struct{}

	mu        sync.Mutex
	state     domain.ConnectionState
	identity  domain.SessionIdentity
	target    string
	conn      Conn
	lastErr   error
	cancel    context.CancelFunc
	stopWatch func() bool

	doneOnce    sync.Once
	settle      sync.Once
	releaseOnce sync.Once
	endOnce     sync.Once

	writeMu sync.Mutex
}

// Option configures a Manager.
type Option func(*Manager)

// WithHooks publishes session events on bus. Sharing one bus across managers
// keeps subscriptions alive when a view re-begins.
func WithHooks(bus *hooks.Manager) Option {
	return func(m *Manager) {
		m.bus = bus
	}
}

// WithMetrics records frame and state metrics.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mt
	}
}

// New creates an idle Manager that will connect to url through dialer.
func New(url string, dialer Dialer, log *logging.Logger, opts ...Option) *Manager {
	m := &Manager{
		url:     url,
		dialer:  dialer,
		log:     log.Sub("session"),
		history: chat.NewHistory(),
		done:    make(chan struct{}),
		settled: make(chan struct{}),
		state:   domain.StateIdle,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.bus == nil {
		m.bus = hooks.NewManager(log)
	}
	return m
}

// On subscribes handler to a session event. See hooks.AllEvents.
func (m *Manager) On(event, name string, handler hooks.Handler) {
	m.bus.On(event, name, handler)
}

// Begin opens the connection for identity. Connection failures are not
// returned: they move the session to Errored and are published as a
// state_changed event. Cancelling ctx closes the session. There is no
// automatic reconnect.
func (m *Manager) Begin(ctx context.Context, identity domain.SessionIdentity) error {
	m.mu.Lock()
	if m.state != domain.StateIdle {
		m.mu.Unlock()
		return ErrAlreadyBegun
	}

	m.identity = identity
	m.log = m.log.With("sessionId", identity.SessionID)
	target, targetErr := BuildTarget(m.url, identity)
	m.target = target

	dialCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.stopWatch = context.AfterFunc(ctx, m.Close)
	m.state = Next(m.state, EventBegin)
	m.mu.Unlock()

	m.bus.Emit(ctx, hooks.Payload{Event: hooks.EventSessionStart, SessionID: identity.SessionID})
	m.publishState(domain.StateConnecting, nil)

	if targetErr != nil {
		m.transition(EventError, targetErr)
		m.finish()
		return nil
	}

	m.log.Info().
		Str("user", identity.DisplayName).
		Str("language", identity.PreferredLanguage).
		Msg("connecting to chat service")

	go m.run(dialCtx, target)
	return nil
}

// run dials, sends the handshake and then reads frames until the
// connection ends. It is the only writer of the history.
func (m *Manager) run(ctx context.Context, target string) {
	defer m.finish()

	conn, err := m.dialer.Dial(ctx, target)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		m.transition(EventError, fmt.Errorf("dial: %w", err))
		return
	}

	m.mu.Lock()
	if m.state != domain.StateConnecting {
		m.mu.Unlock()
		conn.Close()
		return
	}
	m.conn = conn
	m.mu.Unlock()

	// The handshake goes out before Open is published so no Send can precede it.
	if err := m.write([]byte(HandshakePayload)); err != nil {
		m.transition(EventError, fmt.Errorf("handshake: %w", err))
		return
	}
	if !m.transition(EventOpen, nil) {
		return
	}
	m.log.Info().Msg("connected")

	m.readLoop(ctx, conn)
}

func (m *Manager) readLoop(ctx context.Context, conn Conn) {
	for {
		data, err := conn.ReadText()
		if err != nil {
			if errors.Is(err, ErrPeerClosed) {
				m.log.Info().Msg("chat service closed the connection")
				if m.transition(EventRemoteClose, nil) {
					m.release()
					m.end()
				}
			} else {
				m.transition(EventError, fmt.Errorf("read: %w", err))
			}
			return
		}
		m.handleFrame(ctx, data)
	}
}

// handleFrame decodes one inbound frame. Undecodable frames are logged and
// dropped without affecting the connection.
func (m *Manager) handleFrame(ctx context.Context, data []byte) {
	m.metrics.FrameReceived()

	msg, err := chat.Decode(data)
	if err != nil {
		m.metrics.FrameDropped()
		m.log.Warn().Err(err).Int("bytes", len(data)).Msg("dropping inbound frame")
		m.bus.Emit(ctx, hooks.Payload{
			Event:     hooks.EventFrameDropped,
			SessionID: m.LocalID(),
			Text:      string(data),
			Error:     err.Error(),
		})
		return
	}

	n := m.history.Append(msg)
	m.metrics.MessageAppended()
	m.log.Debug().Str("id", msg.ID).Str("from", msg.Sender.Name).Int("history", n).Msg("message received")
	m.bus.Emit(ctx, hooks.Payload{
		Event:     hooks.EventMessageReceived,
		SessionID: m.LocalID(),
		Message:   &msg,
	})
}

// Send transmits text verbatim as one frame. The service attributes sender
// and language from the identity given at connect time.
func (m *Manager) Send(text string) error {
	if !m.State().CanSend() {
		m.metrics.SendRejected("not_connected")
		return ErrNotConnected
	}

	frame, err := chat.Encode(text)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			m.metrics.SendRejected("empty")
		case errors.Is(err, chat.ErrTooLong):
			m.metrics.SendRejected("too_long")
		}
		return err
	}

	if err := m.write(frame); err != nil {
		m.transition(EventError, fmt.Errorf("write: %w", err))
		return fmt.Errorf("send: %w", err)
	}

	m.metrics.MessageSent()
	m.bus.Emit(context.Background(), hooks.Payload{
		Event:     hooks.EventMessageSent,
		SessionID: m.LocalID(),
		Text:      text,
	})
	return nil
}

// write serializes frame writes on the current connection.
func (m *Manager) write(data []byte) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	return conn.WriteText(data)
}

// Close ends the session and releases the connection. It is idempotent and
// safe in every state, including before the connection opened, after an
// error and after the chat service closed the connection.
func (m *Manager) Close() {
	m.mu.Lock()
	prev := m.state
	m.state = Next(prev, EventLocalClose)
	m.mu.Unlock()

	m.release()
	if prev == domain.StateIdle {
		m.finish()
	}
	if prev != domain.StateClosed {
		m.log.Info().Msg("session closed")
		m.publishState(domain.StateClosed, nil)
	}
	m.end()
}

// release stops the context watch, cancels background work and closes the
// connection. Only the first call has an effect.
func (m *Manager) release() {
	m.releaseOnce.Do(func() {
		m.mu.Lock()
		conn := m.conn
		m.conn = nil
		cancel, stopWatch := m.cancel, m.stopWatch
		m.mu.Unlock()

		if stopWatch != nil {
			stopWatch()
		}
		if cancel != nil {
			cancel()
		}
		if conn != nil {
			if err := conn.Close(); err != nil {
				m.log.Debug().Err(err).Msg("closing connection")
			}
		}
	})
}

// end publishes session_end once.
func (m *Manager) end() {
	m.endOnce.Do(func() {
		m.bus.Emit(context.Background(), hooks.Payload{Event: hooks.EventSessionEnd, SessionID: m.LocalID()})
	})
}

// transition applies e and publishes the new state if it changed. It reports
// whether the state changed.
func (m *Manager) transition(e Event, cause error) bool {
	m.mu.Lock()
	prev := m.state
	next := Next(prev, e)
	if next == prev {
		m.mu.Unlock()
		return false
	}
	m.state = next
	if cause != nil {
		m.lastErr = cause
	}
	m.mu.Unlock()

	if cause != nil {
		m.log.Warn().Err(cause).Str("event", e.String()).Msg("connection error")
	}
	m.publishState(next, cause)
	return true
}

func (m *Manager) publishState(s domain.ConnectionState, cause error) {
	if s != domain.StateConnecting {
		m.settle.Do(func() { close(m.settled) })
	}
	m.metrics.SetState(s)
	p := hooks.Payload{Event: hooks.EventStateChanged, SessionID: m.LocalID(), State: s}
	if cause != nil {
		p.Error = cause.Error()
	}
	m.bus.Emit(context.Background(), p)
}

func (m *Manager) finish() {
	m.doneOnce.Do(func() { close(m.done) })
}

// Done is closed once the manager's background work has stopped. Begin
// followed by Close guarantees it closes; it must not be awaited from an
// event handler, which runs on that background goroutine.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Settled is closed once the connection attempt has resolved to Open,
// Errored or Closed.
func (m *Manager) Settled() <-chan struct{} {
	return m.settled
}

// State returns the current connection state.
func (m *Manager) State() domain.ConnectionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Err returns the error that moved the session to Errored, if any.
func (m *Manager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Identity returns the identity passed to Begin.
func (m *Manager) Identity() domain.SessionIdentity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identity
}

// LocalID returns the local session id used for own-message grouping.
func (m *Manager) LocalID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identity.SessionID
}

// Target returns the connection URL including identity parameters.
func (m *Manager) Target() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.target
}

// History returns a snapshot of received messages in arrival order.
func (m *Manager) History() []domain.ChatMessage {
	return m.history.Snapshot()
}
