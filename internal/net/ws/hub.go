// Package ws streams core simulation events to websocket observers
// (UI, audio, external tooling). The hub is a collaborator of the
// simulation core: it subscribes to the public event types like any
// other consumer and never mutates entity state.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"cinderhold/server/internal/events"
	"cinderhold/server/internal/telemetry"
)

const (
	writeWait = 10 * time.Second
	// sendBuffer is the per-observer frame backlog. An observer that
	// falls further behind than this is dropped.
	sendBuffer = 64
)

// Frame is one observer message: an event name plus its payload.
type Frame struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Hub fans simulation events out to connected observers.
type Hub struct {
	logger   telemetry.Logger
	upgrader websocket.Upgrader

	mu          sync.Mutex
	subscribers map[string]*subscriber

	subs []events.Subscription
}

type subscriber struct {
	conn *websocket.Conn

	// send carries marshalled frames to the subscriber's write loop.
	// One writer goroutine per connection keeps delivery ordered.
	send   chan []byte
	closed chan struct{}
	once   sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() {
		close(s.closed)
		s.conn.Close()
	})
}

// NewHub creates a hub with no subscribers.
func NewHub(logger telemetry.Logger) *Hub {
	if logger == nil {
		logger = telemetry.LoggerFunc(func(string, ...any) {})
	}
	return &Hub{
		logger:      logger,
		subscribers: make(map[string]*subscriber),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Attach subscribes the hub to the public event types. Must run on the
// simulation goroutine, like every bus registration.
func (h *Hub) Attach(bus *events.Bus) {
	if h == nil || bus == nil {
		return
	}
	h.subs = append(h.subs,
		events.Subscribe(bus, func(ev events.DamageApplied) {
			h.broadcast("damage_applied", ev)
		}),
		events.Subscribe(bus, func(ev events.EntityDied) {
			h.broadcast("entity_died", ev)
		}),
		events.Subscribe(bus, func(ev events.StatusEffectApplied) {
			h.broadcast("status_effect_applied", ev)
		}),
		events.Subscribe(bus, func(ev events.StatusEffectRemoved) {
			h.broadcast("status_effect_removed", ev)
		}),
	)
}

// Detach removes every bus subscription.
func (h *Hub) Detach() {
	if h == nil {
		return
	}
	for _, sub := range h.subs {
		sub.Unsubscribe()
	}
	h.subs = nil
}

// ServeHTTP upgrades the request and registers the connection as an
// observer until it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("observer upgrade failed: %v", err)
		return
	}

	id := uuid.NewString()
	sub := &subscriber{
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		closed: make(chan struct{}),
	}
	h.mu.Lock()
	h.subscribers[id] = sub
	h.mu.Unlock()

	go h.writeLoop(id, sub)

	// Observers never send meaningful input; the read loop only
	// detects disconnects.
	go func() {
		defer h.drop(id)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Count reports the number of connected observers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

func (h *Hub) broadcast(frameType string, payload any) {
	h.mu.Lock()
	if len(h.subscribers) == 0 {
		h.mu.Unlock()
		return
	}
	targets := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		targets[id] = sub
	}
	h.mu.Unlock()

	data, err := json.Marshal(Frame{Type: frameType, Payload: payload})
	if err != nil {
		h.logger.Printf("marshal %s frame: %v", frameType, err)
		return
	}

	// Enqueue only; the per-subscriber write loop does the I/O, so a
	// slow observer never stalls the tick and frames arrive in the
	// order they were published.
	for id, sub := range targets {
		select {
		case sub.send <- data:
		case <-sub.closed:
		default:
			h.logger.Printf("observer %s fell behind, dropping", id)
			h.drop(id)
		}
	}
}

func (h *Hub) writeLoop(id string, sub *subscriber) {
	for {
		select {
		case <-sub.closed:
			return
		case data := <-sub.send:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Printf("observer %s write failed: %v", id, err)
				h.drop(id)
				return
			}
		}
	}
}

func (h *Hub) drop(id string) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	if ok {
		delete(h.subscribers, id)
	}
	h.mu.Unlock()
	if ok {
		sub.close()
	}
}
