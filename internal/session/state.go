package session

import "github.com/soyeahso/lingochat/internal/domain"

// Event is a lifecycle input to the connection state machine.
type Event int

const (
	EventBegin       Event = iota // caller began the session
	EventOpen                     // transport reported open
	EventError                    // transport reported an error
	EventRemoteClose              // peer closed the connection
	EventLocalClose               // caller closed the session
)

func (e Event) String() string {
	switch e {
	case EventBegin:
		return "begin"
	case EventOpen:
		return "open"
	case EventError:
		return "error"
	case EventRemoteClose:
		return "remote_close"
	case EventLocalClose:
		return "local_close"
	default:
		return "unknown"
	}
}

// Next returns the state that follows s on event e. Inputs that do not apply
// to s leave it unchanged. Closed is terminal, and Errored only moves on an
// explicit local close.
func Next(s domain.ConnectionState, e Event) domain.ConnectionState {
	switch s {
	case domain.StateIdle:
		switch e {
		case EventBegin:
			return domain.StateConnecting
		case EventLocalClose:
			return domain.StateClosed
		}
	case domain.StateConnecting:
		switch e {
		case EventOpen:
			return domain.StateOpen
		case EventError:
			return domain.StateErrored
		case EventRemoteClose, EventLocalClose:
			return domain.StateClosed
		}
	case domain.StateOpen:
		switch e {
		case EventError:
			return domain.StateErrored
		case EventRemoteClose, EventLocalClose:
			return domain.StateClosed
		}
	case domain.StateErrored:
		if e == EventLocalClose {
			return domain.StateClosed
		}
	}
	return s
}
