package service

import (
	"context"

	"github.com/campusfeed/campusfeed/internal/domain"
	"github.com/campusfeed/campusfeed/internal/storage"
)

// NotificationService owns the owner-scoped ledger reads and updates.
// Creation happens inside the message and comment flows, not here.
type NotificationService struct {
	store storage.Store
}

func NewNotificationService(store storage.Store) *NotificationService {
	return &NotificationService{store: store}
}

func (s *NotificationService) ListUnread(ctx context.Context, ownerID uint) ([]*domain.Notification, error) {
	return s.store.ListUnreadNotifications(ctx, ownerID)
}

// MarkRead flips one notification, refusing callers that do not own the row.
func (s *NotificationService) MarkRead(ctx context.Context, id, ownerID uint) error {
	n, err := s.store.GetNotificationByID(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != ownerID {
		return domain.Unauthorizedf("notification does not belong to you")
	}
	if n.IsRead {
		return nil
	}
	return s.store.MarkNotificationRead(ctx, id)
}
