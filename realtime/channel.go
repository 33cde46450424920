// Package realtime is the client side of the platform's push notification
// channel: one WebSocket per session, addressed by role and user id,
// delivering a stream of tagged messages. The channel supervises its own
// connection and reconnects with exponential backoff when the read side
// drops; Close is deterministic and idempotent.
package realtime

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ReconnectConfig controls the backoff between reconnect attempts.
type ReconnectConfig struct {
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultReconnectConfig provides sensible defaults.
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		InitialDelay:  500 * time.Millisecond,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2.0,
	}
}

// Channel is an open notification stream. Messages arrive on Messages()
// until Close is called or the owning context is cancelled.
type Channel struct {
	url       string
	dialer    *websocket.Dialer
	logger    *slog.Logger
	reconnect ReconnectConfig

	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	conn *websocket.Conn

	msgs      chan Message
	closeOnce sync.Once
	done      chan struct{}
}

// Option configures a Channel before it dials.
type Option func(*Channel)

// WithLogger sets the channel logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Channel) { c.logger = logger }
}

// WithReconnect overrides the reconnect backoff parameters.
func WithReconnect(cfg ReconnectConfig) Option {
	return func(c *Channel) { c.reconnect = cfg }
}

// WithDialer overrides the websocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(c *Channel) { c.dialer = d }
}

// Open dials the notification channel at url (ws:// or wss://, path
// /ws/{role}_{userId}) and starts delivering messages. The first dial is
// synchronous so callers learn immediately whether the platform is reachable;
// later drops are handled by the reconnect loop.
func Open(ctx context.Context, url string, opts ...Option) (*Channel, error) {
	cctx, cancel := context.WithCancel(ctx)
	c := &Channel{
		url:       url,
		dialer:    websocket.DefaultDialer,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		reconnect: DefaultReconnectConfig(),
		ctx:       cctx,
		cancel:    cancel,
		msgs:      make(chan Message, 16),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	conn, _, err := c.dialer.DialContext(cctx, url, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	c.conn = conn
	c.logger.Info("notification channel open", "url", url)

	go c.readLoop()
	return c, nil
}

// Messages returns the inbound message stream. The channel is closed once
// the Channel shuts down.
func (c *Channel) Messages() <-chan Message {
	return c.msgs
}

// Close tears the channel down. Safe to call more than once and after the
// owning context has been cancelled.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		c.mu.Lock()
		if c.conn != nil {
			c.conn.Close()
		}
		c.mu.Unlock()
		<-c.done
	})
}

func (c *Channel) readLoop() {
	defer close(c.done)
	defer close(c.msgs)

	for {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()

		_, data, err := conn.ReadMessage()
		if err != nil {
			if c.ctx.Err() != nil {
				return
			}
			c.logger.Warn("notification channel dropped", "error", err)
			if !c.redial() {
				return
			}
			continue
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type == "" {
			// One bad frame must not kill the stream.
			c.logger.Warn("skipping malformed push frame", "error", err, "frame", string(data))
			continue
		}

		select {
		case c.msgs <- msg:
		case <-c.ctx.Done():
			return
		}
	}
}

// redial re-establishes the connection with exponential backoff. Returns
// false once the channel context is cancelled.
func (c *Channel) redial() bool {
	delay := c.reconnect.InitialDelay
	for attempt := 1; ; attempt++ {
		timer := time.NewTimer(delay)
		select {
		case <-c.ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}

		conn, _, err := c.dialer.DialContext(c.ctx, c.url, nil)
		if err == nil {
			c.mu.Lock()
			if c.ctx.Err() != nil {
				// Close won the race: it already closed the previous conn
				// under this mutex and is waiting on done. Installing the
				// fresh conn now would leave a read nobody ever unblocks.
				c.mu.Unlock()
				conn.Close()
				return false
			}
			c.conn = conn
			c.mu.Unlock()
			c.logger.Info("notification channel reconnected", "attempt", attempt)
			return true
		}
		if c.ctx.Err() != nil {
			return false
		}
		c.logger.Warn("reconnect failed", "attempt", attempt, "delay", delay, "error", err)

		delay = time.Duration(float64(delay) * c.reconnect.BackoffFactor)
		if delay > c.reconnect.MaxDelay {
			delay = c.reconnect.MaxDelay
		}
	}
}
