package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	v1alpha1 "github.com/settopbox/stbridge/api/types/v1alpha1"
	"github.com/settopbox/stbridge/internal/stbridged/box"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: Implement proper origin checking
		return true
	},
}

// connection is a middleman between one websocket client and the hub
type connection struct {
	id     string
	ws     *websocket.Conn
	send   chan []byte
	hub    *Hub
	logger *slog.Logger
}

// cleanup handles proper connection closure and cleanup
func (c *connection) cleanup() {
	c.hub.unregister <- c

	if err := c.ws.Close(); err != nil {
		c.logger.Error("error closing websocket connection",
			"error", err,
			"connectionId", c.id,
		)
	}
}

// readPump drains the client side of the connection. Clients are
// listen-only; inbound frames beyond pongs are discarded.
func (c *connection) readPump() {
	defer c.cleanup()

	c.ws.SetReadLimit(maxMessageSize)
	if err := c.ws.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error("failed to set read deadline",
			"error", err,
			"connectionId", c.id,
		)
		return
	}

	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("websocket read error",
					"error", err,
					"connectionId", c.id,
				)
			}
			break
		}
	}
}

func (c *connection) write(mt int, payload []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(mt, payload)
}

func (c *connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.ws.Close(); err != nil {
			c.logger.Error("error closing websocket connection in writePump",
				"error", err,
				"connectionId", c.id,
			)
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				if err := c.write(websocket.CloseMessage, []byte{}); err != nil {
					c.logger.Error("failed to write close message",
						"error", err,
						"connectionId", c.id,
					)
				}
				return
			}
			if err := c.write(websocket.TextMessage, message); err != nil {
				c.logger.Error("failed to write message",
					"error", err,
					"connectionId", c.id,
				)
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, []byte{}); err != nil {
				return
			}
		}
	}
}

// Hub maintains the set of active connections and broadcasts box
// events to all of them. It is the daemon's event sink: every accepted
// box update becomes one frame on every connected client.
type Hub struct {
	// Registered connections
	connections map[*connection]bool

	// Register requests from the connections
	register chan *connection

	// Unregister requests from connections
	unregister chan *connection

	// Outbound frames for all connections
	broadcast chan []byte

	// Logger instance
	logger *slog.Logger
}

// NewHub creates a hub; Run must be started before events are published
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		broadcast:   make(chan []byte, 64),
		register:    make(chan *connection),
		unregister:  make(chan *connection),
		connections: make(map[*connection]bool),
		logger:      logger,
	}
}

// Run processes connection lifecycle and broadcasts until ctx ends
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.connections[c] = true
			h.logger.Info("event stream client connected",
				"connectionId", c.id,
				"connections", len(h.connections),
			)
		case c := <-h.unregister:
			if _, ok := h.connections[c]; ok {
				delete(h.connections, c)
				close(c.send)
				h.logger.Info("event stream client disconnected",
					"connectionId", c.id,
					"connections", len(h.connections),
				)
			}
		case m := <-h.broadcast:
			for c := range h.connections {
				select {
				case c.send <- m:
				default:
					close(c.send)
					delete(h.connections, c)
				}
			}
		}
	}
}

// Publish implements the box event sink by fanning the event out as a
// JSON frame to every connected client. A full broadcast buffer drops
// the frame rather than stalling the synchronizer.
func (h *Hub) Publish(ctx context.Context, event box.Event) error {
	frame := v1alpha1.BoxEvent{
		TypeMeta: v1alpha1.TypeMeta{
			Kind:       "BoxEvent",
			APIVersion: "v1alpha1",
		},
		Type:  v1alpha1.BoxEventType(event.Type),
		BoxID: event.BoxID,
		State: v1alpha1.BoxState(event.State),
		PlayingInfo: v1alpha1.PlayingInfo{
			SourceType:   v1alpha1.SourceKind(event.Info.SourceType),
			ChannelID:    event.Info.ChannelID,
			ChannelTitle: event.Info.ChannelTitle,
			Title:        event.Info.Title,
			Image:        event.Info.Image,
			Paused:       event.Info.Paused,
		},
		Timestamp: event.Timestamp,
	}

	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("event broadcast buffer full, dropping frame",
			"boxId", event.BoxID,
			"type", event.Type,
		)
	}
	return nil
}

// ServeWs upgrades a request to a websocket event stream subscription
func (h *Handler) ServeWs(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	c := &connection{
		id:     uuid.NewString(),
		send:   make(chan []byte, 256),
		ws:     ws,
		hub:    h.hub,
		logger: h.logger,
	}

	c.hub.register <- c

	go c.writePump()
	c.readPump()
}
