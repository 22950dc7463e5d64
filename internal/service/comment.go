package service

import (
	"context"
	"fmt"

	"github.com/campusfeed/campusfeed/internal/domain"
	"github.com/campusfeed/campusfeed/internal/logging"
	"github.com/campusfeed/campusfeed/internal/metrics"
	"github.com/campusfeed/campusfeed/internal/storage"
	"github.com/campusfeed/campusfeed/internal/ws"
)

// CommentService owns the reply-tree operations.
type CommentService struct {
	store storage.Store
	bus   EventBus
}

func NewCommentService(store storage.Store, bus EventBus) *CommentService {
	return &CommentService{store: store, bus: bus}
}

// AddComment creates a comment (optionally as a reply). The store assigns
// depth and materialized path after the row has its id. Replying to someone
// else's comment raises a notification for the parent author and pushes it to
// their room, as a side effect of this one operation.
func (s *CommentService) AddComment(ctx context.Context, postID, authorID uint, content string, parentID *uint) (*domain.Comment, error) {
	author, err := s.store.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	comment, err := s.store.CreateComment(ctx, &domain.Comment{
		PostID:   postID,
		ParentID: parentID,
		UserID:   authorID,
		Content:  content,
	})
	if err != nil {
		return nil, err
	}

	if parentID != nil {
		s.notifyParentAuthor(ctx, comment, author)
	}
	return comment, nil
}

func (s *CommentService) notifyParentAuthor(ctx context.Context, comment *domain.Comment, author *domain.User) {
	parent, err := s.store.GetCommentByID(ctx, *comment.ParentID)
	if err != nil {
		logging.Warn().Err(err).Uint("comment_id", comment.ID).Msg("failed to load parent for reply notification")
		return
	}
	if parent.UserID == comment.UserID {
		// No self-notification for replying to yourself.
		return
	}

	notif, err := s.store.CreateNotification(ctx, &domain.Notification{
		UserID:  parent.UserID,
		Type:    domain.NotificationCommentReply,
		Content: fmt.Sprintf("%s replied to your comment", author.Name),
		ActorID: comment.UserID,
	})
	if err != nil {
		logging.Warn().Err(err).Uint("comment_id", comment.ID).Msg("failed to create reply notification")
		return
	}
	metrics.NotificationsCreated.WithLabelValues(domain.NotificationCommentReply).Inc()

	s.bus.Emit(ws.Event{
		Name:    ws.EventNotificationNew,
		Payload: ws.NewNotificationPayload(notif, author.Name),
	}, ws.RoomForUser(parent.UserID))
}

// ListForPost returns the post's full comment tree in pre-order.
func (s *CommentService) ListForPost(ctx context.Context, postID uint) ([]*domain.Comment, error) {
	if _, err := s.store.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.store.ListCommentsForPost(ctx, postID)
}
