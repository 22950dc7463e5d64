package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/campusfeed/campusfeed/internal/domain"
)

const maxCommentLength = 2000

// Store keeps everything in mutex-guarded maps. It backs tests and the
// -storage in-memory mode; semantics mirror the sqldb backend.
type Store struct {
	mu            sync.RWMutex
	users         map[uint]*domain.User
	posts         map[uint]*domain.Post
	messages      map[uint]*domain.Message
	notifications map[uint]*domain.Notification
	comments      map[uint]*domain.Comment

	userSeq         uint
	postSeq         uint
	messageSeq      uint
	notificationSeq uint
	commentSeq      uint

	clock func() time.Time
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:         make(map[uint]*domain.User),
		posts:         make(map[uint]*domain.Post),
		messages:      make(map[uint]*domain.Message),
		notifications: make(map[uint]*domain.Notification),
		comments:      make(map[uint]*domain.Comment),
		clock:         func() time.Time { return time.Now().UTC() },
	}
}

// === Users ===

func (s *Store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return nil, domain.Validationf("email %q is already registered", user.Email)
		}
	}

	s.userSeq++
	user.ID = s.userSeq
	user.CreatedAt = s.clock()
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id uint) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.NotFoundf("user %d not found", id)
	}
	return user, nil
}

func (s *Store) GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[uint]*domain.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			result[id] = u
		}
	}
	return result, nil
}

func (s *Store) SearchUsers(ctx context.Context, query string, limit int) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return []*domain.User{}, nil
	}

	var matches []*domain.User
	for _, u := range s.users {
		if strings.Contains(strings.ToLower(u.Name), needle) || strings.Contains(strings.ToLower(u.Email), needle) {
			matches = append(matches, u)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (s *Store) CountPostsByUser(ctx context.Context, userID uint) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, p := range s.posts {
		if p.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountCommentsByUser(ctx context.Context, userID uint) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, c := range s.comments {
		if c.UserID == userID {
			n++
		}
	}
	return n, nil
}

// === Posts ===

func (s *Store) CreatePost(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.postSeq++
	post.ID = s.postSeq
	post.CreatedAt = s.clock()
	s.posts[post.ID] = post
	return post, nil
}

func (s *Store) GetPostByID(ctx context.Context, id uint) (*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, domain.NotFoundf("post %d not found", id)
	}
	return post, nil
}

// === Messages ===

func (s *Store) CreateMessage(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messageSeq++
	msg.ID = s.messageSeq
	msg.CreatedAt = s.clock()
	s.messages[msg.ID] = msg
	return msg, nil
}

func (s *Store) GetMessageByID(ctx context.Context, id uint) (*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[id]
	if !ok {
		return nil, domain.NotFoundf("message %d not found", id)
	}
	return msg, nil
}

func (s *Store) RecentMessagesTouching(ctx context.Context, userID uint, limit int) ([]*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var msgs []*domain.Message
	for _, m := range s.messages {
		if m.SenderID == userID || m.RecipientID == userID {
			msgs = append(msgs, m)
		}
	}
	sortNewestFirst(msgs)
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

func (s *Store) ConversationBetween(ctx context.Context, userID, otherID uint, limit int) ([]*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var msgs []*domain.Message
	for _, m := range s.messages {
		if (m.SenderID == userID && m.RecipientID == otherID) || (m.SenderID == otherID && m.RecipientID == userID) {
			msgs = append(msgs, m)
		}
	}
	sortNewestFirst(msgs)
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

func (s *Store) MarkMessageRead(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.messages[id]
	if !ok {
		return domain.NotFoundf("message %d not found", id)
	}
	msg.IsRead = true
	return nil
}

func (s *Store) CountUnreadMessages(ctx context.Context, userID uint) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, m := range s.messages {
		if m.RecipientID == userID && !m.IsRead {
			n++
		}
	}
	return n, nil
}

// Newest first; id breaks ties so ordering matches insert order even when
// timestamps collide at clock resolution.
func sortNewestFirst(msgs []*domain.Message) {
	sort.Slice(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].ID > msgs[j].ID
		}
		return msgs[i].CreatedAt.After(msgs[j].CreatedAt)
	})
}

// === Notifications ===

func (s *Store) CreateNotification(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	n.ID = s.notificationSeq
	n.CreatedAt = s.clock()
	s.notifications[n.ID] = n
	return n, nil
}

func (s *Store) GetNotificationByID(ctx context.Context, id uint) (*domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notifications[id]
	if !ok {
		return nil, domain.NotFoundf("notification %d not found", id)
	}
	return n, nil
}

func (s *Store) ListUnreadNotifications(ctx context.Context, ownerID uint) ([]*domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Notification
	for _, n := range s.notifications {
		if n.UserID == ownerID && !n.IsRead {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok {
		return domain.NotFoundf("notification %d not found", id)
	}
	n.IsRead = true
	return nil
}

func (s *Store) MarkNotificationsReadByMessage(ctx context.Context, ownerID, messageID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated int64
	for _, n := range s.notifications {
		if n.UserID == ownerID && !n.IsRead && n.MessageID != nil && *n.MessageID == messageID {
			n.IsRead = true
			updated++
		}
	}
	return updated, nil
}

func (s *Store) MarkNotificationsReadByActor(ctx context.Context, ownerID, actorID uint, typ string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated int64
	for _, n := range s.notifications {
		if n.UserID == ownerID && n.ActorID == actorID && n.Type == typ && !n.IsRead {
			n.IsRead = true
			updated++
		}
	}
	return updated, nil
}

// === Comments ===

func (s *Store) CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(comment.Content) == "" {
		return nil, domain.Validationf("comment content cannot be empty")
	}
	if len(comment.Content) > maxCommentLength {
		return nil, domain.Validationf("comment content is too long")
	}
	if _, ok := s.posts[comment.PostID]; !ok {
		return nil, domain.NotFoundf("post %d not found", comment.PostID)
	}

	var parent *domain.Comment
	if comment.ParentID != nil {
		p, ok := s.comments[*comment.ParentID]
		if !ok {
			return nil, domain.NotFoundf("parent comment %d not found", *comment.ParentID)
		}
		if p.PostID != comment.PostID {
			return nil, domain.Validationf("parent comment belongs to a different post")
		}
		if p.Depth >= domain.MaxCommentDepth {
			return nil, domain.Validationf("comment thread is nested too deeply")
		}
		parent = p
	}

	s.commentSeq++
	comment.ID = s.commentSeq
	comment.CreatedAt = s.clock()

	// Path and depth are derived from the id assigned above and fixed for
	// the lifetime of the row.
	if parent != nil {
		comment.Depth = parent.Depth + 1
		comment.Path = domain.ChildPath(parent.Path, comment.ID)
	} else {
		comment.Depth = 0
		comment.Path = domain.ChildPath("", comment.ID)
	}

	s.comments[comment.ID] = comment
	return comment, nil
}

func (s *Store) GetCommentByID(ctx context.Context, id uint) (*domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comment, ok := s.comments[id]
	if !ok {
		return nil, domain.NotFoundf("comment %d not found", id)
	}
	return comment, nil
}

func (s *Store) ListCommentsForPost(ctx context.Context, postID uint) ([]*domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}
