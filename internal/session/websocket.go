package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/soyeahso/lingochat/internal/version"
)

// WebSocketDialer connects to the chat service with gorilla/websocket.
type WebSocketDialer struct {
	HandshakeTimeout time.Duration
	ReadLimit        int64 // bytes; 0 means unlimited
}

// Dial opens a WebSocket connection to target.
func (d *WebSocketDialer) Dial(ctx context.Context, target string) (Conn, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: d.HandshakeTimeout,
		ReadBufferSize:   4096,
		WriteBufferSize:  4096,
	}
	header := http.Header{"User-Agent": []string{version.UserAgent()}}

	conn, resp, err := dialer.DialContext(ctx, target, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket upgrade failed with status %d: %w", resp.StatusCode, err)
		}
		return nil, err
	}
	if d.ReadLimit > 0 {
		conn.SetReadLimit(d.ReadLimit)
	}
	return &wsConn{ws: conn}, nil
}

type wsConn struct {
	ws *websocket.Conn
}

func (c *wsConn) WriteText(data []byte) error {
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// ReadText returns the next data frame. A close frame from the peer is
// reported as ErrPeerClosed; an abnormal closure is an error.
func (c *wsConn) ReadText() ([]byte, error) {
	_, data, err := c.ws.ReadMessage()
	if err != nil {
		var ce *websocket.CloseError
		if errors.As(err, &ce) && ce.Code != websocket.CloseAbnormalClosure {
			return nil, fmt.Errorf("%w: %v", ErrPeerClosed, err)
		}
		return nil, err
	}
	return data, nil
}

// Close sends a normal-closure frame and releases the socket.
func (c *wsConn) Close() error {
	c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return c.ws.Close()
}
