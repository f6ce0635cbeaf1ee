package domain

// ConnectionState is the lifecycle state of a chat session's connection.
type ConnectionState string

const (
	StateIdle       ConnectionState = "idle" // never begun
	StateConnecting ConnectionState = "connecting"
	StateOpen       ConnectionState = "open"
	StateClosed     ConnectionState = "closed"
	StateErrored    ConnectionState = "errored"
)

// CanSend reports whether outgoing messages are accepted in this state.
func (s ConnectionState) CanSend() bool {
	return s == StateOpen
}

// Live reports whether the state may still hold a transport resource.
func (s ConnectionState) Live() bool {
	return s == StateConnecting || s == StateOpen || s == StateErrored
}
