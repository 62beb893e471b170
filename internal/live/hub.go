package live

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gandaki-ict/backend/internal/models"
)

const (
	// PingInterval and PongWait are used for heartbeat, in seconds.
	PingInterval = 30
	PongWait     = 60
)

// roomKey identifies a check-in room: one per event or program.
func roomKey(typ models.EntityType, id uuid.UUID) string {
	return string(typ) + ":" + id.String()
}

// Hub maintains room -> set of connections and broadcasts check-in updates.
// Uses Redis pub/sub for horizontal scaling: local broadcast + publish to Redis.
type Hub struct {
	// room -> map[clientID]*Client
	rooms  map[string]map[string]*Client
	subs   map[string]func() // cancel Redis subscription per room
	mu     sync.RWMutex
	logger *zap.Logger
	pub    Publisher
	sub    Subscriber
}

// Publisher publishes to Redis for cross-instance broadcast.
type Publisher interface {
	PublishRoomEvent(room, event string, payload []byte) error
}

// Subscriber subscribes to room channels and invokes handler for incoming events.
type Subscriber interface {
	SubscribeRoom(room string, handler func(event string, payload []byte)) (cancel func(), err error)
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *zap.Logger, pub Publisher, sub Subscriber) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		rooms:  make(map[string]map[string]*Client),
		subs:   make(map[string]func()),
		logger: logger,
		pub:    pub,
		sub:    sub,
	}
}

// Register adds a client to a room. Starts the Redis subscription for the
// room when the first client joins.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.rooms[c.Room] == nil {
		h.rooms[c.Room] = make(map[string]*Client)
		if h.sub != nil {
			room := c.Room
			cancel, err := h.sub.SubscribeRoom(room, func(event string, payload []byte) {
				h.broadcastLocal(room, event, json.RawMessage(payload))
			})
			if err == nil {
				h.subs[room] = cancel
			}
		}
	}
	h.rooms[c.Room][c.ID] = c
	h.mu.Unlock()
	h.logger.Debug("client joined room", zap.String("client_id", c.ID), zap.String("room", c.Room))
}

// Unregister removes a client from a room. Cancels the Redis subscription
// when the last client leaves.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if m, ok := h.rooms[c.Room]; ok {
		delete(m, c.ID)
		if len(m) == 0 {
			delete(h.rooms, c.Room)
			if cancel, ok := h.subs[c.Room]; ok {
				cancel()
				delete(h.subs, c.Room)
			}
		}
	}
	h.mu.Unlock()
	h.logger.Debug("client left room", zap.String("client_id", c.ID), zap.String("room", c.Room))
}

// Broadcast delivers an event to every dashboard watching the entity. When
// Redis is available it publishes only, so the subscriber callback performs
// the broadcast once for all instances including this one.
func (h *Hub) Broadcast(typ models.EntityType, entityID uuid.UUID, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	room := roomKey(typ, entityID)
	if h.pub != nil {
		_ = h.pub.PublishRoomEvent(room, event, data)
		return
	}
	h.broadcastLocal(room, event, json.RawMessage(data))
}

func (h *Hub) broadcastLocal(room, event string, data json.RawMessage) {
	msg := WSMessage{Event: event, Data: data}

	h.mu.RLock()
	clients := h.rooms[room]
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			// buffer full, skip
		}
	}
}

// WatcherCount returns the number of connected clients in a room.
func (h *Hub) WatcherCount(typ models.EntityType, entityID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomKey(typ, entityID)])
}
