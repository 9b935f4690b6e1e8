package network

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wildsim/ozzoo/internal/domain/rules"
	"github.com/wildsim/ozzoo/internal/engine"
	"github.com/wildsim/ozzoo/internal/platform/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 1024
	// How long a submitted command may wait for the engine.
	commandWait = 10 * time.Second
)

// PlayerAction is one incoming frame from an operator console. Type names
// an engine action ("feed", "buy_animal", ...); Payload carries that
// action's parameters.
type PlayerAction struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client holds one WebSocket connection and its outbound queue.
type Client struct {
	hub            *Hub
	conn           *websocket.Conn
	send           chan []byte
	lastActionTime time.Time
}

// NewClient wraps a fresh connection for the hub.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, hub.tuning.ClientSendBuffer),
	}
}

// Register adds the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// ReadPump pumps frames from the websocket connection into the engine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warnf("WebSocket read error: %v", err)
				metrics.Get().RecordWSError()
			}
			break
		}
		metrics.Get().RecordWSMessage(true)

		var action PlayerAction
		if err := json.Unmarshal(message, &action); err != nil {
			c.hub.logger.Warnf("Unparseable frame from client: %v", err)
			c.sendError("", "frame is not a valid action", "")
			continue
		}

		c.handlePlayerAction(action)
	}
}

// handlePlayerAction rate-limits, translates, and submits one action. The
// reply goes back to this client only; state changes reach everyone else
// through the event poller.
func (c *Client) handlePlayerAction(action PlayerAction) {
	if time.Since(c.lastActionTime) < c.hub.tuning.MinActionInterval {
		c.hub.logger.Warnf("Rate limit exceeded for action %q", action.Type)
		c.sendError(action.Type, "too many actions, slow down", "")
		return
	}
	c.lastActionTime = time.Now()

	var cmd engine.Command
	if len(action.Payload) > 0 {
		if err := json.Unmarshal(action.Payload, &cmd); err != nil {
			c.sendError(action.Type, "payload does not match the action", "")
			return
		}
	}
	cmd.Action = engine.ActionType(action.Type)

	ctx, cancel := context.WithTimeout(context.Background(), commandWait)
	defer cancel()
	res := c.hub.engine.Submit(ctx, cmd)
	if res.Err != nil {
		kind, _ := rules.KindOf(res.Err)
		c.sendError(action.Type, res.Err.Error(), string(kind))
		return
	}

	c.sendMessage(Message{
		Type:      MsgTypeCommandResult,
		Timestamp: time.Now().Unix(),
		Payload: map[string]interface{}{
			"action":  action.Type,
			"message": res.Message,
			"data":    res.Data,
		},
	})
}

// sendMessage queues one frame for this client only. Never blocks; a full
// queue drops the frame so one stuck reader cannot jam the pump.
func (c *Client) sendMessage(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		c.hub.logger.Errorf("Failed to serialize client message: %v", err)
		return
	}
	select {
	case c.send <- payload:
	default:
		metrics.Get().RecordWSError()
	}
}

func (c *Client) sendError(action, detail, kind string) {
	payload := map[string]interface{}{
		"action": action,
		"error":  detail,
	}
	if kind != "" {
		payload["kind"] = kind
	}
	c.sendMessage(Message{
		Type:      MsgTypeError,
		Timestamp: time.Now().Unix(),
		Payload:   payload,
	})
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)
			metrics.Get().RecordWSMessage(false)

			// Add queued messages to the current websocket message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
				metrics.Get().RecordWSMessage(false)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
