package ws

import (
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-json"

	"github.com/campusfeed/campusfeed/internal/logging"
	"github.com/campusfeed/campusfeed/internal/metrics"
)

// RoomForUser names the room that carries all push events for one user id.
func RoomForUser(userID uint) string {
	return fmt.Sprintf("user_%d", userID)
}

// Hub maps room ids to the set of live clients registered in them and fans
// events out to whole rooms. It is an explicit service object: constructed in
// main, injected where needed, shut down with the process. Delivery is
// best-effort; the durable store stays the source of truth.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]bool)}
}

// Run blocks until ctx is canceled, then closes every client. Intended to be
// run in its own goroutine alongside the HTTP server.
func (h *Hub) Run(ctx context.Context) error {
	<-ctx.Done()
	h.closeAll()
	return ctx.Err()
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	if _, ok := h.rooms[c.room]; !ok {
		h.rooms[c.room] = make(map[*Client]bool)
	}
	h.rooms[c.room][c] = true
	h.mu.Unlock()

	metrics.ConnectionsActive.Inc()
	logging.Info().Str("room", c.room).Str("conn_id", c.id).Msg("client connected")
}

// unregister removes the client from its room. Safe to call more than once;
// only the first call closes the done channel. The send channel is never
// closed, so emits racing with a disconnect stay safe.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	removed := false
	if members, ok := h.rooms[c.room]; ok {
		if members[c] {
			delete(members, c)
			close(c.done)
			removed = true
		}
		if len(members) == 0 {
			delete(h.rooms, c.room)
		}
	}
	h.mu.Unlock()

	if removed {
		metrics.ConnectionsActive.Dec()
		logging.Info().Str("room", c.room).Str("conn_id", c.id).Msg("client disconnected")
	}
}

// Emit serializes the event once and delivers it to every client currently in
// the room. An empty room is a silent no-op. A client whose send buffer is
// full is dropped from the room; it will reconnect and catch up from the
// durable store.
func (h *Hub) Emit(event Event, roomID string) {
	frame, err := json.Marshal(envelope{Event: event.Name, Data: event.Payload})
	if err != nil {
		logging.Warn().Err(err).Str("event", event.Name).Msg("failed to marshal event payload")
		return
	}

	// Snapshot membership so a concurrent disconnect cannot invalidate the
	// iteration.
	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[roomID]))
	for c := range h.rooms[roomID] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	if len(members) == 0 {
		return
	}

	var stalled []*Client
	for _, c := range members {
		select {
		case c.send <- frame:
			metrics.EventsEmitted.WithLabelValues(event.Name).Inc()
		default:
			stalled = append(stalled, c)
		}
	}

	for _, c := range stalled {
		metrics.EventsDropped.WithLabelValues(event.Name).Inc()
		logging.Warn().Str("room", roomID).Str("conn_id", c.id).Str("event", event.Name).
			Msg("send buffer full, dropping client")
		h.unregister(c)
	}
}

// RoomSize returns the number of live clients in a room.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	var closed int
	for room, members := range h.rooms {
		for c := range members {
			close(c.done)
			closed++
		}
		delete(h.rooms, room)
	}
	h.mu.Unlock()

	metrics.ConnectionsActive.Sub(float64(closed))
	logging.Info().Int("clients_closed", closed).Msg("hub stopped")
}
