package websocket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// Time allowed for the opening handshake when none is configured.
	DefaultHandshakeTimeout = 45 * time.Second

	// Time allowed to write the close frame to the peer.
	closeWait = time.Second
)

// ErrClosed reports that the peer closed or dropped the connection, or that
// Close was called.
var ErrClosed = errors.New("connection closed")

// Options tunes a connection. Zero values mean no limit, except the
// handshake which falls back to DefaultHandshakeTimeout.
type Options struct {
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	ReadLimit        int64
	Header           http.Header
}

// Conn is a client connection to a room.
type Conn struct {
	conn         *websocket.Conn
	url          string
	writeTimeout time.Duration

	// Only one writer may use conn at a time.
	mu sync.Mutex

	closeOnce sync.Once
	closeErr  error
}

// Dial opens a connection to url.
func Dial(ctx context.Context, url string, opts Options) (*Conn, error) {
	handshake := opts.HandshakeTimeout
	if handshake <= 0 {
		handshake = DefaultHandshakeTimeout
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: handshake,
	}

	conn, resp, err := dialer.DialContext(ctx, url, opts.Header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", url, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	if opts.ReadLimit > 0 {
		conn.SetReadLimit(opts.ReadLimit)
	}

	log.Debug().Str("url", url).Msg("websocket connected")

	return &Conn{
		conn:         conn,
		url:          url,
		writeTimeout: opts.WriteTimeout,
	}, nil
}

// URL returns the address the connection was dialed with.
func (c *Conn) URL() string {
	return c.url
}

// Send writes payload as a single text frame.
func (c *Conn) Send(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.writeTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return classify(err)
		}
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return classify(err)
	}
	return nil
}

// Receive blocks until the next data frame arrives and returns its payload.
func (c *Conn) Receive(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stop := context.AfterFunc(ctx, func() { _ = c.Close() })
	defer stop()

	_, payload, err := c.conn.ReadMessage()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, classify(err)
	}
	return payload, nil
}

// Close sends a normal closure frame, best effort, and closes the connection.
// It is safe to call more than once.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWait))
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

// classify wraps errors that mean the connection is gone with ErrClosed.
func classify(err error) error {
	var closeErr *websocket.CloseError
	switch {
	case errors.As(err, &closeErr),
		errors.Is(err, websocket.ErrCloseSent),
		errors.Is(err, net.ErrClosed),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EPIPE):
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}
	return err
}
