package ws

import (
	"time"

	"github.com/campusfeed/campusfeed/internal/domain"
)

// Event names pushed by the server. Clients additionally send "ping" and
// receive "pong" on the same connection.
const (
	EventMessageNew      = "message:new"
	EventMessageSent     = "message:sent"
	EventNotificationNew = "notification:new"
	EventPong            = "pong"
)

// Event is a named payload delivered to a room. Payloads are the typed
// structs below; serialization happens once at the bus boundary.
type Event struct {
	Name    string
	Payload any
}

// envelope is the wire shape of every frame.
type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// MessagePayload mirrors the serialized message fields. Used for both
// message:new (recipient room) and message:sent (sender room echo).
type MessagePayload struct {
	ID          uint   `json:"id"`
	SenderID    uint   `json:"sender_id"`
	RecipientID uint   `json:"recipient_id"`
	Content     string `json:"content"`
	IsRead      bool   `json:"is_read"`
	CreatedAt   string `json:"created_at"`
}

// NewMessagePayload builds the wire payload for a persisted message.
func NewMessagePayload(m *domain.Message) MessagePayload {
	return MessagePayload{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Content:     m.Content,
		IsRead:      m.IsRead,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
}

// NotificationPayload mirrors the serialized notification fields pushed with
// notification:new.
type NotificationPayload struct {
	ID        uint   `json:"id"`
	Type      string `json:"type"`
	Content   string `json:"content"`
	ActorID   uint   `json:"actor_id"`
	ActorName string `json:"actor_name,omitempty"`
	MessageID *uint  `json:"message_id,omitempty"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

// NewNotificationPayload builds the wire payload for a persisted notification.
func NewNotificationPayload(n *domain.Notification, actorName string) NotificationPayload {
	return NotificationPayload{
		ID:        n.ID,
		Type:      n.Type,
		Content:   n.Content,
		ActorID:   n.ActorID,
		ActorName: actorName,
		MessageID: n.MessageID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}
