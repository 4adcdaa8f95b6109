// Package websocket carries the translation protocol over a websocket.
package websocket

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/koscakluka/medtranslate-core/core/connection"
)

const closeWriteTimeout = 2 * time.Second

type Dialer struct {
	dialer *websocket.Dialer
	header http.Header
}

type DialerOption func(*Dialer)

// WithHeader adds headers to the opening handshake request.
func WithHeader(header http.Header) DialerOption {
	return func(d *Dialer) { d.header = header.Clone() }
}

func WithGorillaDialer(dialer *websocket.Dialer) DialerOption {
	return func(d *Dialer) {
		if dialer != nil {
			d.dialer = dialer
		}
	}
}

func NewDialer(opts ...DialerOption) *Dialer {
	d := &Dialer{dialer: websocket.DefaultDialer}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dialer) Dial(ctx context.Context, url string) (connection.Conn, error) {
	conn, resp, err := d.dialer.DialContext(ctx, url, d.header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket dial failed (status %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	return &Conn{conn: conn}, nil
}

// Conn adapts a gorilla connection to text frames. Writes are serialized by
// the connection manager.
type Conn struct {
	conn      *websocket.Conn
	closeOnce sync.Once
	closeErr  error
}

func (c *Conn) ReadMessage() ([]byte, error) {
	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil, fmt.Errorf("server closed connection: %w", err)
			}
			return nil, err
		}
		if messageType != websocket.TextMessage {
			continue
		}
		return data, nil
	}
}

func (c *Conn) WriteMessage(data []byte) error {
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Close sends a normal closure (1000) and closes the socket.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(closeWriteTimeout))
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}
