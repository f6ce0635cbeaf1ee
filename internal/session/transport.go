package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/soyeahso/lingochat/internal/domain"
)

// ErrPeerClosed is wrapped by Conn.ReadText when the chat service closed the
// connection cleanly.
var ErrPeerClosed = errors.New("connection closed by peer")

// Conn is one open duplex connection carrying text frames.
type Conn interface {
	// WriteText sends one text frame. Calls are serialized by the caller.
	WriteText(data []byte) error

	// ReadText blocks for the next inbound frame.
	ReadText() ([]byte, error)

	// Close releases the connection.
	Close() error
}

// Dialer opens connections to the chat service.
type Dialer interface {
	Dial(ctx context.Context, target string) (Conn, error)
}

// Query parameter names carrying the session identity.
const (
	ParamUserID   = "userId"
	ParamUserName = "userName"
	ParamLanguage = "language"
)

// BuildTarget embeds the identity into base as URL-encoded query parameters.
// The identity parameters replace any of the same name on base. Other query
// parameters already on base are kept, so a configured URL may carry extra
// routing parameters; with a plain base the target has exactly the three
// identity parameters.
func BuildTarget(base string, id domain.SessionIdentity) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing transport url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("transport url %q needs a scheme and host", base)
	}

	q := u.Query()
	q.Set(ParamUserID, id.SessionID)
	q.Set(ParamUserName, id.DisplayName)
	q.Set(ParamLanguage, id.PreferredLanguage)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
