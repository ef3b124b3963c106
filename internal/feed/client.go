package feed

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"live-strategy-lab/internal/domain"
)

const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultReadTimeout      = 15 * time.Second
	defaultWriteTimeout     = 10 * time.Second

	maxFrameSize = 1 << 20 // 1MB
)

// ClientOptions configures a websocket feed client.
type ClientOptions struct {
	// Endpoint identifies the stream and the optional subscription frame.
	Endpoint Endpoint
	// HandshakeTimeout bounds the dial. Default 10s.
	HandshakeTimeout time.Duration
	// ReadTimeout is the fallback per-read window applied when the
	// caller's context carries no deadline. Default 15s.
	ReadTimeout time.Duration
	// WriteTimeout bounds subscription, ping and close writes. Default 10s.
	WriteTimeout time.Duration
	// Logger for connection lifecycle events.
	Logger zerolog.Logger
	// Now supplies tick observation times. Defaults to time.Now.
	Now func() time.Time
}

// Client is a Source over a single websocket connection. It never
// reconnects; a dropped connection ends the run it serves.
type Client struct {
	conn         *websocket.Conn
	symbol       string
	readTimeout  time.Duration
	writeTimeout time.Duration
	logger       zerolog.Logger
	now          func() time.Time

	closed atomic.Bool
}

// Dial connects to the endpoint and, if the endpoint has one, sends the
// subscription frame before returning.
func Dial(ctx context.Context, opts ClientOptions) (*Client, error) {
	if opts.Endpoint.URL == "" {
		return nil, fmt.Errorf("feed: endpoint URL is required")
	}
	if opts.HandshakeTimeout == 0 {
		opts.HandshakeTimeout = defaultHandshakeTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = defaultReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	dialer := websocket.Dialer{HandshakeTimeout: opts.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, opts.Endpoint.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial %s: %w", opts.Endpoint.URL, err)
	}
	conn.SetReadLimit(maxFrameSize)

	c := &Client{
		conn:         conn,
		symbol:       opts.Endpoint.Symbol,
		readTimeout:  opts.ReadTimeout,
		writeTimeout: opts.WriteTimeout,
		logger:       opts.Logger,
		now:          opts.Now,
	}

	if opts.Endpoint.Subscription != nil {
		if err := conn.SetWriteDeadline(c.now().Add(c.writeTimeout)); err != nil {
			conn.Close()
			return nil, fmt.Errorf("set write deadline: %w", err)
		}
		if err := conn.WriteJSON(opts.Endpoint.Subscription); err != nil {
			conn.Close()
			return nil, fmt.Errorf("write subscription: %w", err)
		}
	}

	c.logger.Info().
		Str("url", opts.Endpoint.URL).
		Str("symbol", c.symbol).
		Msg("feed connected")
	return c, nil
}

// Next reads one frame and decodes it into a tick. The read is bounded by
// the context deadline when present, otherwise by the client read timeout.
// A quiet stream surfaces as ErrReadTimeout unless the context was
// cancelled, in which case the context error wins.
func (c *Client) Next(ctx context.Context) (domain.PriceTick, error) {
	if c.closed.Load() {
		return domain.PriceTick{}, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return domain.PriceTick{}, err
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = c.now().Add(c.readTimeout)
	}
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return domain.PriceTick{}, fmt.Errorf("set read deadline: %w", err)
	}

	_, frame, err := c.conn.ReadMessage()
	if err != nil {
		if c.closed.Load() {
			return domain.PriceTick{}, ErrClosed
		}
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			if ctx.Err() == context.Canceled {
				return domain.PriceTick{}, ctx.Err()
			}
			return domain.PriceTick{}, ErrReadTimeout
		}
		return domain.PriceTick{}, fmt.Errorf("read frame: %w", err)
	}

	price, err := DecodePrice(frame)
	if err != nil {
		return domain.PriceTick{}, err
	}
	return domain.PriceTick{Symbol: c.symbol, Price: price, ObservedAt: c.now()}, nil
}

// Ping writes a websocket ping control frame.
func (c *Client) Ping(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = c.now().Add(c.writeTimeout)
	}
	return c.conn.WriteControl(websocket.PingMessage, nil, deadline)
}

// Close sends a close frame and tears the connection down, unblocking any
// in-flight Next. Subsequent calls are no-ops.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	deadline := c.now().Add(c.writeTimeout)
	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		deadline,
	)
	err := c.conn.Close()
	c.logger.Debug().Str("symbol", c.symbol).Msg("feed closed")
	return err
}

// Ensure Client implements Source
var _ Source = (*Client)(nil)
