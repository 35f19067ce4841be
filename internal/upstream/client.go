// Package upstream implements the JSON-over-WebSocket command client for the
// remote music server.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/tunestream/tunestream/internal/config"
	"github.com/tunestream/tunestream/internal/media"
)

const (
	cmdSearch = "music/search"
	cmdPing   = "server/ping"

	writeWait = 10 * time.Second
)

var (
	ErrNotConnected   = errors.New("upstream: not connected to music server")
	ErrServerError    = errors.New("upstream: music server returned an error")
	ErrConnectionLost = errors.New("upstream: connection lost")
)

// Client is a command client for the music server. Commands are matched to
// responses by message ID, so multiple commands may be in flight at once.
type Client struct {
	cfg    config.UpstreamConfig
	logger zerolog.Logger

	mu      sync.Mutex
	conn    *websocket.Conn
	pending map[string]chan responseEnvelope
}

// NewClient creates a new music server client. Call Connect before issuing
// commands.
func NewClient(cfg config.UpstreamConfig, logger zerolog.Logger) *Client {
	return &Client{
		cfg:     cfg,
		logger:  logger.With().Str("component", "upstream").Logger(),
		pending: make(map[string]chan responseEnvelope),
	}
}

// Connect dials the music server and starts the response reader. Calling
// Connect on an already-connected client is a no-op.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.TimeoutDuration()}
	conn, _, err := dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("upstream: failed to connect to %s: %w", c.cfg.URL, err)
	}

	c.conn = conn
	go c.readLoop(conn)

	c.logger.Info().Str("url", c.cfg.URL).Msg("Connected to music server")
	return nil
}

// Close closes the connection and fails all in-flight commands.
func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.failPendingLocked()
	c.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

// Connected reports whether the client currently holds a connection.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Search asks the music server for candidates matching the query. The
// returned items are in upstream order; relevance ranking is the caller's
// concern.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]media.Item, error) {
	result, err := c.command(ctx, cmdSearch, searchArgs{SearchQuery: query, Limit: limit})
	if err != nil {
		return nil, err
	}

	var payload searchResultPayload
	if err := json.Unmarshal(result, &payload); err != nil {
		return nil, fmt.Errorf("upstream: failed to decode search result: %w", err)
	}
	return payload.items(), nil
}

// Ping issues a lightweight command to verify the server is responsive.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.command(ctx, cmdPing, nil)
	return err
}

// command sends one command and waits for its response or context expiry.
func (c *Client) command(ctx context.Context, command string, args any) (json.RawMessage, error) {
	env := commandEnvelope{
		MessageID: uuid.NewString(),
		Command:   command,
		Args:      args,
	}

	ch := make(chan responseEnvelope, 1)

	c.mu.Lock()
	if c.conn == nil {
		c.mu.Unlock()
		return nil, ErrNotConnected
	}
	c.pending[env.MessageID] = ch
	conn := c.conn
	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)
	err := conn.WriteJSON(env)
	c.mu.Unlock()

	if err != nil {
		c.removePending(env.MessageID)
		return nil, fmt.Errorf("upstream: failed to send %s command: %w", command, err)
	}

	timeout := c.cfg.TimeoutDuration()
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		c.removePending(env.MessageID)
		return nil, ctx.Err()
	case <-timer.C:
		c.removePending(env.MessageID)
		return nil, fmt.Errorf("upstream: %s command timed out after %s", command, timeout)
	case resp, ok := <-ch:
		if !ok {
			return nil, ErrConnectionLost
		}
		if resp.Error != nil {
			return nil, fmt.Errorf("%w: %s (code %d)", ErrServerError, resp.Error.Message, resp.Error.Code)
		}
		return resp.Result, nil
	}
}

// readLoop dispatches responses to waiting commands until the connection
// fails or is closed.
func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		var resp responseEnvelope
		if err := conn.ReadJSON(&resp); err != nil {
			c.mu.Lock()
			if c.conn == conn {
				c.conn = nil
				c.failPendingLocked()
				c.logger.Warn().Err(err).Msg("Music server connection lost")
			}
			c.mu.Unlock()
			return
		}

		c.mu.Lock()
		ch, ok := c.pending[resp.MessageID]
		if ok {
			delete(c.pending, resp.MessageID)
		}
		c.mu.Unlock()

		if ok {
			ch <- resp
		} else if resp.MessageID != "" {
			c.logger.Debug().Str("messageId", resp.MessageID).Msg("Dropping response with no waiting command")
		}
	}
}

func (c *Client) removePending(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// failPendingLocked closes all in-flight command channels. Caller holds mu.
func (c *Client) failPendingLocked() {
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}
