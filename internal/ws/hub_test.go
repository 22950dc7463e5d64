package ws

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, userID uint, buffer int) *Client {
	return &Client{
		id:     "test-conn",
		hub:    hub,
		send:   make(chan []byte, buffer),
		done:   make(chan struct{}),
		userID: userID,
		room:   RoomForUser(userID),
	}
}

func decodeFrame(t *testing.T, frame []byte) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(frame, &env))
	return env
}

func TestRoomForUser(t *testing.T) {
	assert.Equal(t, "user_7", RoomForUser(7))
}

func TestHub_EmitReachesAllRoomMembers(t *testing.T) {
	hub := NewHub()
	a := newTestClient(hub, 1, 4)
	b := newTestClient(hub, 1, 4)
	other := newTestClient(hub, 2, 4)
	hub.register(a)
	hub.register(b)
	hub.register(other)

	hub.Emit(Event{Name: EventMessageNew, Payload: MessagePayload{ID: 10, Content: "hi"}}, RoomForUser(1))

	for _, c := range []*Client{a, b} {
		select {
		case frame := <-c.send:
			env := decodeFrame(t, frame)
			assert.Equal(t, EventMessageNew, env.Event)
		default:
			t.Fatal("expected a frame in the room member's buffer")
		}
	}
	assert.Empty(t, other.send)
}

func TestHub_EmitToEmptyRoomIsNoOp(t *testing.T) {
	hub := NewHub()
	// Must not panic or error.
	hub.Emit(Event{Name: EventNotificationNew, Payload: NotificationPayload{ID: 1}}, RoomForUser(99))
	assert.Equal(t, 0, hub.RoomSize(RoomForUser(99)))
}

func TestHub_EmitOrderWithinRoom(t *testing.T) {
	hub := NewHub()
	c := newTestClient(hub, 1, 8)
	hub.register(c)

	for i := 1; i <= 3; i++ {
		hub.Emit(Event{Name: EventMessageNew, Payload: MessagePayload{ID: uint(i)}}, c.room)
	}

	var ids []float64
	for i := 0; i < 3; i++ {
		env := decodeFrame(t, <-c.send)
		data := env.Data.(map[string]any)
		ids = append(ids, data["id"].(float64))
	}
	assert.Equal(t, []float64{1, 2, 3}, ids)
}

func TestHub_UnregisterIsIdempotent(t *testing.T) {
	hub := NewHub()
	c := newTestClient(hub, 1, 4)
	hub.register(c)
	require.Equal(t, 1, hub.RoomSize(c.room))

	hub.unregister(c)
	assert.Equal(t, 0, hub.RoomSize(c.room))

	// Second call must not panic on the closed done channel.
	hub.unregister(c)
	assert.Equal(t, 0, hub.RoomSize(c.room))
}

func TestHub_EmitDuringDisconnectChurnDoesNotPanic(t *testing.T) {
	hub := NewHub()
	room := RoomForUser(1)
	for i := 0; i < 50; i++ {
		hub.register(newTestClient(hub, 1, 1))
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			c := newTestClient(hub, 1, 1)
			hub.register(c)
			hub.unregister(c)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			hub.Emit(Event{Name: EventMessageNew, Payload: MessagePayload{ID: uint(i)}}, room)
		}
		close(stop)
	}()

	waited := make(chan struct{})
	go func() { wg.Wait(); close(waited) }()
	select {
	case <-waited:
	case <-time.After(5 * time.Second):
		t.Fatal("emit and disconnect churn deadlocked")
	}
}

func TestHub_StalledClientIsDropped(t *testing.T) {
	hub := NewHub()
	stalled := newTestClient(hub, 1, 1)
	healthy := newTestClient(hub, 1, 8)
	hub.register(stalled)
	hub.register(healthy)

	// First emit fills the stalled client's buffer, second overflows it.
	hub.Emit(Event{Name: EventMessageNew, Payload: MessagePayload{ID: 1}}, RoomForUser(1))
	hub.Emit(Event{Name: EventMessageNew, Payload: MessagePayload{ID: 2}}, RoomForUser(1))

	assert.Equal(t, 1, hub.RoomSize(RoomForUser(1)))
	assert.Len(t, healthy.send, 2)
}

func TestHub_RunClosesClientsOnCancel(t *testing.T) {
	hub := NewHub()
	c := newTestClient(hub, 1, 4)
	hub.register(c)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	select {
	case <-c.done:
	default:
		t.Fatal("client was not signalled to shut down")
	}
	assert.Equal(t, 0, hub.RoomSize(c.room))
}
