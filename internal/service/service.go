// Package service composes the storage layer and the event bus into the
// operations the API exposes. Persistence always commits before fan-out, and
// fan-out failures never roll anything back.
package service

import (
	"github.com/campusfeed/campusfeed/internal/ws"
)

// EventBus is the push side of the connection registry. The hub implements
// it; tests substitute a recorder.
type EventBus interface {
	Emit(event ws.Event, roomID string)
}
