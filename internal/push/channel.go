// Package push implements the client side of the platform's persistent
// event channel: dial, decode, join/leave commands, and reconnect.
package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/escrowdesk/escrowdesk/internal/chat"
	"github.com/escrowdesk/escrowdesk/internal/proto"
)

// ErrNotConnected is returned by Join/Leave while the transport is down.
var ErrNotConnected = errors.New("push channel not connected")

const reconnectDelay = 3 * time.Second

// Callbacks receive channel lifecycle and message events. OnConnect fires
// on every successful dial, including reconnects, so the caller can
// re-establish room interest. All callbacks are optional.
type Callbacks struct {
	OnMessage func(chat.Message)
	OnConnect func(ctx context.Context)
	OnError   func(err error)
}

// Channel is a websocket client for the dispute event feed. It satisfies
// the synchronizer's Channel interface.
type Channel struct {
	url   string
	token string
	cb    Callbacks
	log   *zerolog.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

// New builds a channel client. Run must be called to connect.
func New(url, token string, cb Callbacks, logger *zerolog.Logger) *Channel {
	return &Channel{
		url:   url,
		token: token,
		cb:    cb,
		log:   logger,
	}
}

// Run dials the socket server and reads events until ctx is cancelled.
// On transport errors it reports through OnError, waits briefly, and
// reconnects; each successful dial fires OnConnect.
func (c *Channel) Run(ctx context.Context) error {
	for {
		if err := c.runOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if c.cb.OnError != nil {
				c.cb.OnError(err)
			}
			c.log.Warn().Err(err).Msg("push channel disconnected")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectDelay):
		}
	}
}

func (c *Channel) runOnce(ctx context.Context) error {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.token)

	conn, _, err := websocket.Dial(ctx, c.url, &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		conn.Close(websocket.StatusNormalClosure, "closing")
	}()

	c.log.Debug().Str("url", c.url).Msg("push channel connected")
	if c.cb.OnConnect != nil {
		c.cb.OnConnect(ctx)
	}

	return c.readLoop(ctx, conn)
}

func (c *Channel) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil
			}
			return fmt.Errorf("read event: %w", err)
		}
		c.dispatch(outbound)
	}
}

func (c *Channel) dispatch(outbound proto.Outbound) {
	if outbound.Error != nil {
		if c.cb.OnError != nil {
			c.cb.OnError(fmt.Errorf("socket server error %s: %s", outbound.Error.Code, outbound.Error.Msg))
		}
		return
	}

	switch outbound.Event {
	case proto.EventDisputeMessage:
		var evt proto.DisputeMessage
		if err := json.Unmarshal(outbound.Data, &evt); err != nil {
			c.log.Warn().Err(err).Msg("malformed disputeMessage payload")
			return
		}
		msg := toDomain(evt)
		if !msg.Valid() {
			c.log.Warn().Str("id", evt.ID).Str("dispute", evt.DisputeID).Msg("rejecting incomplete disputeMessage event")
			return
		}
		if c.cb.OnMessage != nil {
			c.cb.OnMessage(msg)
		}
	default:
		c.log.Debug().Str("event", outbound.Event).Msg("ignoring unhandled event")
	}
}

// Join subscribes this client to a dispute room. The bearer credential
// rides along; the socket server authorizes per room.
func (c *Channel) Join(ctx context.Context, roomID string) error {
	return c.send(ctx, proto.InboundTypeJoinRoom, proto.RoomData{Room: roomID, Token: c.token})
}

// Leave withdraws interest in a dispute room.
func (c *Channel) Leave(ctx context.Context, roomID string) error {
	return c.send(ctx, proto.InboundTypeLeaveRoom, proto.RoomData{Room: roomID})
}

func (c *Channel) send(ctx context.Context, msgType string, data proto.RoomData) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", msgType, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: payload}); err != nil {
		return fmt.Errorf("write %s: %w", msgType, err)
	}
	return nil
}

func toDomain(evt proto.DisputeMessage) chat.Message {
	return chat.Message{
		ID:         evt.ID,
		RoomID:     evt.DisputeID,
		AuthorID:   evt.UserID,
		AuthorRole: chat.Role(strings.TrimSpace(evt.UserRole)),
		Body:       evt.Message,
		SentAt:     evt.Timestamp,
	}
}
