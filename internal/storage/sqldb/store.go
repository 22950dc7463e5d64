package sqldb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campusfeed/campusfeed/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const maxCommentLength = 2000

// Store implements storage.Store on top of gorm. The same code serves
// PostgreSQL in production and an SQLite file in development; dialect
// selection happens in the constructors.
type Store struct {
	db *gorm.DB
}

// NewPostgres connects to PostgreSQL and migrates the schema.
func NewPostgres(dsn string) (*Store, error) {
	return open(postgres.Open(dsn))
}

// NewSQLite opens (or creates) an SQLite database file and migrates the
// schema. Used when no database URL is configured.
func NewSQLite(path string) (*Store, error) {
	return open(sqlite.Open(path))
}

func open(dialector gorm.Dialector) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Surfaces driver errors as gorm.ErrDuplicatedKey and friends.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Post{},
		&domain.Message{},
		&domain.Notification{},
		&domain.Comment{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// === Users ===

func (s *Store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.Validationf("email %q is already registered", user.Email)
		}
		return nil, err
	}
	return user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundf("user %d not found", id)
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]*domain.User, error) {
	if len(ids) == 0 {
		return map[uint]*domain.User{}, nil
	}
	var users []*domain.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	result := make(map[uint]*domain.User, len(users))
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

func (s *Store) SearchUsers(ctx context.Context, query string, limit int) ([]*domain.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*domain.User{}, nil
	}
	pattern := "%" + strings.ToLower(query) + "%"
	var users []*domain.User
	err := s.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern).
		Order("id ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (s *Store) CountPostsByUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&domain.Post{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func (s *Store) CountCommentsByUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&domain.Comment{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

// === Posts ===

func (s *Store) CreatePost(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (s *Store) GetPostByID(ctx context.Context, id uint) (*domain.Post, error) {
	var post domain.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundf("post %d not found", id)
		}
		return nil, err
	}
	return &post, nil
}

// === Messages ===

func (s *Store) CreateMessage(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *Store) GetMessageByID(ctx context.Context, id uint) (*domain.Message, error) {
	var msg domain.Message
	if err := s.db.WithContext(ctx).First(&msg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundf("message %d not found", id)
		}
		return nil, err
	}
	return &msg, nil
}

func (s *Store) RecentMessagesTouching(ctx context.Context, userID uint, limit int) ([]*domain.Message, error) {
	var msgs []*domain.Message
	err := s.db.WithContext(ctx).
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&msgs).Error
	return msgs, err
}

func (s *Store) ConversationBetween(ctx context.Context, userID, otherID uint, limit int) ([]*domain.Message, error) {
	var msgs []*domain.Message
	err := s.db.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userID, otherID, otherID, userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&msgs).Error
	return msgs, err
}

func (s *Store) MarkMessageRead(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&domain.Message{}).Where("id = ?", id).Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundf("message %d not found", id)
	}
	return nil
}

func (s *Store) CountUnreadMessages(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&domain.Message{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

// === Notifications ===

func (s *Store) CreateNotification(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Store) GetNotificationByID(ctx context.Context, id uint) (*domain.Notification, error) {
	var n domain.Notification
	if err := s.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundf("notification %d not found", id)
		}
		return nil, err
	}
	return &n, nil
}

func (s *Store) ListUnreadNotifications(ctx context.Context, ownerID uint) ([]*domain.Notification, error) {
	var out []*domain.Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_read = ?", ownerID, false).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (s *Store) MarkNotificationRead(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&domain.Notification{}).Where("id = ?", id).Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundf("notification %d not found", id)
	}
	return nil
}

func (s *Store) MarkNotificationsReadByMessage(ctx context.Context, ownerID, messageID uint) (int64, error) {
	res := s.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("user_id = ? AND message_id = ? AND is_read = ?", ownerID, messageID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (s *Store) MarkNotificationsReadByActor(ctx context.Context, ownerID, actorID uint, typ string) (int64, error) {
	res := s.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("user_id = ? AND actor_id = ? AND type = ? AND is_read = ?", ownerID, actorID, typ, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// === Comments ===

func (s *Store) CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	if strings.TrimSpace(comment.Content) == "" {
		return nil, domain.Validationf("comment content cannot be empty")
	}
	if len(comment.Content) > maxCommentLength {
		return nil, domain.Validationf("comment content is too long")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post domain.Post
		if err := tx.Select("id").First(&post, "id = ?", comment.PostID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFoundf("post %d not found", comment.PostID)
			}
			return err
		}

		var parent *domain.Comment
		if comment.ParentID != nil {
			var p domain.Comment
			if err := tx.First(&p, "id = ?", *comment.ParentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.NotFoundf("parent comment %d not found", *comment.ParentID)
				}
				return err
			}
			if p.PostID != comment.PostID {
				return domain.Validationf("parent comment belongs to a different post")
			}
			if p.Depth >= domain.MaxCommentDepth {
				return domain.Validationf("comment thread is nested too deeply")
			}
			parent = &p
		}

		// Two-phase insert: the row must exist before the path can be
		// built from its id.
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		if parent != nil {
			comment.Depth = parent.Depth + 1
			comment.Path = domain.ChildPath(parent.Path, comment.ID)
		} else {
			comment.Depth = 0
			comment.Path = domain.ChildPath("", comment.ID)
		}
		return tx.Model(comment).Updates(map[string]any{
			"depth": comment.Depth,
			"path":  comment.Path,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *Store) GetCommentByID(ctx context.Context, id uint) (*domain.Comment, error) {
	var comment domain.Comment
	if err := s.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundf("comment %d not found", id)
		}
		return nil, err
	}
	return &comment, nil
}

func (s *Store) ListCommentsForPost(ctx context.Context, postID uint) ([]*domain.Comment, error) {
	var out []*domain.Comment
	// Zero-padded path segments make this ORDER BY a pre-order traversal.
	err := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("path ASC").
		Find(&out).Error
	return out, err
}
