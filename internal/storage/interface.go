package storage

import (
	"context"

	"github.com/campusfeed/campusfeed/internal/domain"
)

// Store is the contract every storage backend satisfies. Lookup methods
// return a domain error of kind not_found when the row does not exist, so
// callers never depend on backend-specific sentinel errors.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByID(ctx context.Context, id uint) (*domain.User, error)
	GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]*domain.User, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]*domain.User, error)
	CountPostsByUser(ctx context.Context, userID uint) (int64, error)
	CountCommentsByUser(ctx context.Context, userID uint) (int64, error)

	// Posts
	CreatePost(ctx context.Context, post *domain.Post) (*domain.Post, error)
	GetPostByID(ctx context.Context, id uint) (*domain.Post, error)

	// Messages
	CreateMessage(ctx context.Context, msg *domain.Message) (*domain.Message, error)
	GetMessageByID(ctx context.Context, id uint) (*domain.Message, error)
	// RecentMessagesTouching returns the newest messages where the user is
	// sender or recipient, newest first, capped at limit.
	RecentMessagesTouching(ctx context.Context, userID uint, limit int) ([]*domain.Message, error)
	// ConversationBetween returns the newest messages exchanged by the pair,
	// newest first, capped at limit.
	ConversationBetween(ctx context.Context, userID, otherID uint, limit int) ([]*domain.Message, error)
	MarkMessageRead(ctx context.Context, id uint) error
	CountUnreadMessages(ctx context.Context, userID uint) (int64, error)

	// Notifications
	CreateNotification(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	GetNotificationByID(ctx context.Context, id uint) (*domain.Notification, error)
	ListUnreadNotifications(ctx context.Context, ownerID uint) ([]*domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id uint) error
	// MarkNotificationsReadByMessage flips read on unread rows of the owner
	// carrying the given message correlation key.
	MarkNotificationsReadByMessage(ctx context.Context, ownerID, messageID uint) (int64, error)
	// MarkNotificationsReadByActor flips read on all unread rows matching
	// {owner, actor, type}. This is the legacy correlation sweep.
	MarkNotificationsReadByActor(ctx context.Context, ownerID, actorID uint, typ string) (int64, error)

	// Comments
	// CreateComment validates post and parent, inserts the row, then assigns
	// depth and materialized path from the now-known id (two-phase insert).
	CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	GetCommentByID(ctx context.Context, id uint) (*domain.Comment, error)
	// ListCommentsForPost returns every comment of the post ordered by path,
	// which reproduces a pre-order tree traversal.
	ListCommentsForPost(ctx context.Context, postID uint) ([]*domain.Comment, error)
}
