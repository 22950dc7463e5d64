package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusfeed/campusfeed/internal/domain"
	"github.com/campusfeed/campusfeed/internal/logging"
	"github.com/campusfeed/campusfeed/internal/metrics"
	"github.com/campusfeed/campusfeed/internal/storage"
	"github.com/campusfeed/campusfeed/internal/ws"
)

const (
	// threadScanWindow bounds the message scan that thread listing groups
	// over. Older conversations age out of the list once the window is full.
	threadScanWindow = 100

	defaultConversationLimit = 50
	maxConversationLimit     = 100
)

// ReadSweepPolicy names how marking a message read correlates back to the
// notification ledger, which carries no hard foreign key to messages.
type ReadSweepPolicy string

const (
	// ReadSweepActor marks every unread direct-message notification from
	// the message's sender as read in one sweep. Opening any message from
	// an actor acknowledges all of that actor's pings; this batching is the
	// historical behavior and the default.
	ReadSweepActor ReadSweepPolicy = "actor"

	// ReadSweepMessage marks only notifications carrying the exact message
	// correlation key.
	ReadSweepMessage ReadSweepPolicy = "message"
)

// MessageService owns the direct-message operations.
type MessageService struct {
	store storage.Store
	bus   EventBus
	sweep ReadSweepPolicy
}

func NewMessageService(store storage.Store, bus EventBus, sweep ReadSweepPolicy) *MessageService {
	if sweep == "" {
		sweep = ReadSweepActor
	}
	return &MessageService{store: store, bus: bus, sweep: sweep}
}

// Send validates, persists the message, records a notification and fans both
// out to the affected rooms. The notification and the fan-out are side
// effects of this one operation: a committed message is never lost to a
// failure in either.
func (s *MessageService) Send(ctx context.Context, senderID, recipientID uint, content string) (*domain.Message, *domain.Notification, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil, domain.Validationf("message content cannot be empty")
	}
	if senderID == recipientID {
		return nil, nil, domain.Validationf("cannot message yourself")
	}

	sender, err := s.store.GetUserByID(ctx, senderID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.store.GetUserByID(ctx, recipientID); err != nil {
		return nil, nil, err
	}

	msg, err := s.store.CreateMessage(ctx, &domain.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to persist message: %w", err)
	}
	metrics.MessagesSent.Inc()

	notif, err := s.store.CreateNotification(ctx, &domain.Notification{
		UserID:    recipientID,
		Type:      domain.NotificationDirectMessage,
		Content:   fmt.Sprintf("%s sent you a message", sender.Name),
		ActorID:   senderID,
		MessageID: &msg.ID,
	})
	if err != nil {
		// The message is committed and authoritative; the ledger entry is a
		// denormalized extra.
		logging.Warn().Err(err).Uint("message_id", msg.ID).Msg("failed to create notification")
		notif = nil
	} else {
		metrics.NotificationsCreated.WithLabelValues(domain.NotificationDirectMessage).Inc()
	}

	payload := ws.NewMessagePayload(msg)
	s.bus.Emit(ws.Event{Name: ws.EventMessageNew, Payload: payload}, ws.RoomForUser(recipientID))
	s.bus.Emit(ws.Event{Name: ws.EventMessageSent, Payload: payload}, ws.RoomForUser(senderID))
	if notif != nil {
		s.bus.Emit(ws.Event{
			Name:    ws.EventNotificationNew,
			Payload: ws.NewNotificationPayload(notif, sender.Name),
		}, ws.RoomForUser(recipientID))
	}

	return msg, notif, nil
}

// ListThreads groups the user's most recent messages by counterpart. Threads
// come back most-recently-active first, each carrying the latest message and
// the count of scanned messages still unread by the user.
func (s *MessageService) ListThreads(ctx context.Context, userID uint) ([]*domain.Thread, error) {
	msgs, err := s.store.RecentMessagesTouching(ctx, userID, threadScanWindow)
	if err != nil {
		return nil, err
	}

	byCounterpart := make(map[uint]*domain.Thread)
	var order []uint
	for _, m := range msgs {
		other := m.RecipientID
		if m.RecipientID == userID {
			other = m.SenderID
		}
		thread, ok := byCounterpart[other]
		if !ok {
			thread = &domain.Thread{CounterpartID: other, LastMessage: m}
			byCounterpart[other] = thread
			order = append(order, other)
		}
		if !m.IsRead && m.RecipientID == userID {
			thread.UnreadCount++
		}
	}

	users, err := s.store.GetUsersByIDs(ctx, order)
	if err != nil {
		return nil, err
	}

	threads := make([]*domain.Thread, 0, len(order))
	for _, id := range order {
		thread := byCounterpart[id]
		if u, ok := users[id]; ok {
			thread.CounterpartName = u.Name
		} else {
			thread.CounterpartName = "Unknown"
		}
		threads = append(threads, thread)
	}
	return threads, nil
}

// Conversation returns the most recent window of messages between the user
// and the counterpart, chronologically ascending for display. A counterpart
// with no history (or no account) yields an empty slice, not an error.
func (s *MessageService) Conversation(ctx context.Context, userID, otherID uint, limit int) ([]*domain.Message, error) {
	if limit <= 0 || limit > maxConversationLimit {
		limit = defaultConversationLimit
	}
	msgs, err := s.store.ConversationBetween(ctx, userID, otherID, limit)
	if err != nil {
		return nil, err
	}
	// Storage returns newest first; flip for display.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// MarkRead flips the read flag. Only the recipient may do so; repeating the
// call on an already-read message is a no-op. Matching unread notifications
// are marked read best-effort according to the configured sweep policy.
func (s *MessageService) MarkRead(ctx context.Context, messageID, requesterID uint) error {
	msg, err := s.store.GetMessageByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.RecipientID != requesterID {
		return domain.Unauthorizedf("only the recipient can mark a message read")
	}
	if msg.IsRead {
		return nil
	}
	if err := s.store.MarkMessageRead(ctx, messageID); err != nil {
		return err
	}

	var sweepErr error
	switch s.sweep {
	case ReadSweepMessage:
		_, sweepErr = s.store.MarkNotificationsReadByMessage(ctx, requesterID, messageID)
	default:
		_, sweepErr = s.store.MarkNotificationsReadByActor(ctx, requesterID, msg.SenderID, domain.NotificationDirectMessage)
	}
	if sweepErr != nil {
		// The message read state is authoritative; the ledger lags at worst.
		logging.Warn().Err(sweepErr).Uint("message_id", messageID).Msg("notification read sweep failed")
	}
	return nil
}

// UnreadCount counts messages addressed to the user that are still unread.
// Always recomputed from the message table, never cached.
func (s *MessageService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.store.CountUnreadMessages(ctx, userID)
}
