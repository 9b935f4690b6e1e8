package network

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/wildsim/ozzoo/internal/engine"
	"github.com/wildsim/ozzoo/internal/events"
	"github.com/wildsim/ozzoo/internal/platform/logger"
	"github.com/wildsim/ozzoo/internal/platform/metrics"
	"github.com/wildsim/ozzoo/internal/platform/optimization"
)

// MsgType labels a hub push so the frontend can route it.
type MsgType string

const (
	MsgTypeEvent         MsgType = "EVENT"
	MsgTypeDaySummary    MsgType = "DAY_SUMMARY"
	MsgTypeWelfareAlert  MsgType = "WELFARE_ALERT"
	MsgTypeCommandResult MsgType = "COMMAND_RESULT"
	MsgTypeError         MsgType = "ERROR"
)

// Message is the envelope for every frame the hub pushes to a socket.
type Message struct {
	Type      MsgType     `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
// It never blocks a caller: a full broadcast buffer drops the frame and a
// slow client gets disconnected rather than stalling the rest.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	engine     *engine.Engine
	logger     *logger.Logger
	tuning     *optimization.Config
}

// NewHub initializes a WebSocket hub serving the given engine.
func NewHub(eng *engine.Engine, tuning *optimization.Config, log *logger.Logger) *Hub {
	if tuning == nil {
		tuning = optimization.DefaultConfig()
	}
	return &Hub{
		broadcast:  make(chan []byte, tuning.BroadcastChannelBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		engine:     eng,
		logger:     log,
		tuning:     tuning,
	}
}

// Run starts the hub's main loop to handle client connections and
// broadcasts. Start it once, in its own goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket hub shutting down")
			return
		case client := <-h.register:
			h.mu.Lock()
			if len(h.clients) >= h.tuning.MaxClients {
				h.mu.Unlock()
				h.logger.Warnf("Turning away WebSocket client, %d already connected", h.tuning.MaxClients)
				close(client.send)
				continue
			}
			h.clients[client] = true
			h.mu.Unlock()
			metrics.Get().RecordWSConnection(1)
			h.logger.Info("New WebSocket client connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.Get().RecordWSConnection(-1)
				h.logger.Info("WebSocket client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
					metrics.Get().RecordWSConnection(-1)
					metrics.Get().RecordWSError()
				}
			}
			h.mu.Unlock()
		}
	}
}

// ClientCount reports how many sockets are connected right now.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues a message for every connected client. Never blocks;
// when the buffer is full the frame is dropped and counted as an error.
// Safe to call from engine callbacks.
func (h *Hub) Broadcast(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Errorf("Failed to serialize hub message: %v", err)
		metrics.Get().RecordWSError()
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn("Broadcast buffer full, dropping frame")
		metrics.Get().RecordWSError()
	}
}

// BroadcastEvent pushes one log event to every connected client.
func (h *Hub) BroadcastEvent(event events.GameEvent) {
	h.Broadcast(Message{
		Type:      MsgTypeEvent,
		Timestamp: time.Now().Unix(),
		Payload:   event,
	})
}

// BroadcastSummary pushes the settlement record of a finished day.
func (h *Hub) BroadcastSummary(summary engine.DaySummary) {
	h.Broadcast(Message{
		Type:      MsgTypeDaySummary,
		Timestamp: time.Now().Unix(),
		Payload:   summary,
	})
}

// BroadcastAlert pushes a welfare alert the moment it fires.
func (h *Hub) BroadcastAlert(alert engine.WelfareAlert) {
	h.Broadcast(Message{
		Type:      MsgTypeWelfareAlert,
		Timestamp: time.Now().Unix(),
		Payload:   alert,
	})
}

// StartEventPoller spawns a goroutine that tails the EventLog and pushes
// new events to the hub. This keeps the hub decoupled from the engine's
// dispatch loop while still surfacing every event.
func (h *Hub) StartEventPoller(ctx context.Context, eventLog *events.EventLog) {
	go func() {
		pollInterval := time.NewTicker(200 * time.Millisecond)
		defer pollInterval.Stop()

		lastProcessed := 0

		for {
			select {
			case <-ctx.Done():
				return
			case <-pollInterval.C:
				all := eventLog.Replay()
				if len(all) <= lastProcessed {
					continue
				}
				for _, event := range all[lastProcessed:] {
					h.BroadcastEvent(event)
				}
				lastProcessed = len(all)
			}
		}
	}()
}
