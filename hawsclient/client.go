// Package hawsclient implements a minimal client for the Home Assistant
// WebSocket API, sufficient to authenticate and retrieve entity states.
package hawsclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ErrAuthInvalid is returned when the server rejects the access token.
var ErrAuthInvalid = errors.New("authentication rejected by server")

// Option is the type of options for clients.
type Option func(*Client)

// WithLogger supplies a logging function to the client.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithAccessToken supplies the long-lived access token used during the
// authentication handshake.
func WithAccessToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// Client is a wrapper around an underlying Home Assistant WebSocket
// connection. Message IDs are unique to each connection.
type Client struct {
	log   *zap.Logger
	token string

	mu     sync.Mutex
	conn   *websocket.Conn
	nextID int64
}

// Dial connects to a Home Assistant WebSocket endpoint and performs the
// authentication handshake. The address must have the format
// "<host>:<port>" (see net.JoinHostPort). Use the context to establish
// a timeout.
func Dial(ctx context.Context, address string, opts ...Option) (*Client, error) {
	c := &Client{}

	for _, opt := range opts {
		opt(c)
	}

	if c.log == nil {
		c.log = zap.NewNop()
	}

	u := url.URL{
		Scheme: "ws",
		Host:   address,
		Path:   "/api/websocket",
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %q failed: %w", u.String(), err)
	}

	c.conn = conn

	if err := c.authenticate(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	return c, nil
}

// Close closes the underlying network connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) applyDeadline(ctx context.Context) {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Time{}
	}

	c.conn.SetReadDeadline(deadline)
	c.conn.SetWriteDeadline(deadline)
}

func (c *Client) readEnvelope(ctx context.Context) (*envelope, error) {
	c.applyDeadline(ctx)

	var env envelope
	if err := c.conn.ReadJSON(&env); err != nil {
		return nil, fmt.Errorf("reading server message failed: %w", err)
	}

	c.log.Debug("received message",
		zap.String("type", env.Type),
		zap.Int64("id", env.ID))

	return &env, nil
}

func (c *Client) writeJSON(ctx context.Context, v any) error {
	c.applyDeadline(ctx)

	return c.conn.WriteJSON(v)
}

// authenticate performs the auth_required/auth/auth_ok exchange described
// at https://developers.home-assistant.io/docs/api/websocket.
func (c *Client) authenticate(ctx context.Context) error {
	env, err := c.readEnvelope(ctx)
	if err != nil {
		return err
	}

	if env.Type != msgTypeAuthRequired {
		return fmt.Errorf("expected %q message, got %q", msgTypeAuthRequired, env.Type)
	}

	if err := c.writeJSON(ctx, authMessage{
		Type:        msgTypeAuth,
		AccessToken: c.token,
	}); err != nil {
		return fmt.Errorf("sending auth message failed: %w", err)
	}

	if env, err = c.readEnvelope(ctx); err != nil {
		return err
	}

	switch env.Type {
	case msgTypeAuthOK:
		c.log.Debug("authenticated", zap.String("ha_version", env.HAVersion))
		return nil
	case msgTypeAuthInvalid:
		return fmt.Errorf("%w: %s", ErrAuthInvalid, env.Message)
	default:
		return fmt.Errorf("unexpected message type %q during authentication", env.Type)
	}
}

// roundTrip sends a command and waits for the result message with the
// matching ID. Messages for other IDs are discarded.
func (c *Client) roundTrip(ctx context.Context, cmdType string) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID

	if err := c.writeJSON(ctx, commandMessage{ID: id, Type: cmdType}); err != nil {
		return nil, fmt.Errorf("sending %q command failed: %w", cmdType, err)
	}

	for {
		env, err := c.readEnvelope(ctx)
		if err != nil {
			return nil, err
		}

		if env.Type != msgTypeResult || env.ID != id {
			continue
		}

		if !env.Success {
			if env.Error != nil {
				return nil, fmt.Errorf("command %q failed: %s (%s)",
					cmdType, env.Error.Message, env.Error.Code)
			}
			return nil, fmt.Errorf("command %q failed", cmdType)
		}

		return env.Result, nil
	}
}

// States sends a "get_states" command and returns all entity states known
// to the server.
func (c *Client) States(ctx context.Context) (States, error) {
	raw, err := c.roundTrip(ctx, msgTypeGetStates)
	if err != nil {
		return nil, err
	}

	var result States
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode states: %w", err)
	}

	return result, nil
}
