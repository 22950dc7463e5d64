package domain

import "time"

// User is the identity anchor. Accounts are never hard-deleted: message and
// comment rows reference user ids and rely on them staying resolvable.
type User struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"size:120;not null"`
	Email      string    `json:"email" gorm:"uniqueIndex;size:191;not null"`
	Bio        string    `json:"bio" gorm:"type:text"`
	Branch     string    `json:"branch" gorm:"size:80"`
	Year       int       `json:"year"`
	ProfilePic string    `json:"profile_pic" gorm:"size:255"`
	CreatedAt  time.Time `json:"created_at"`
}

// Post anchors a comment tree. The full post surface (media, markdown,
// reactions) lives outside this core; only the fields comments need are here.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Content   string    `json:"content" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is a directed unit of text between two distinct users. Content is
// immutable once sent; only the read flag mutates, and only by the recipient.
type Message struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	SenderID    uint      `json:"sender_id" gorm:"index;not null"`
	RecipientID uint      `json:"recipient_id" gorm:"index;not null"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	IsRead      bool      `json:"is_read" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// Notification is a denormalized read-model row for the owner's feed. The
// originating message/comment stays authoritative. MessageID is an optional
// weak reference back to the triggering direct message; correlation by
// {owner, actor, type, unread} remains supported (see service.ReadSweepPolicy).
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Type      string    `json:"type" gorm:"size:30;index;not null"`
	Content   string    `json:"content" gorm:"type:text"`
	ActorID   uint      `json:"actor_id" gorm:"index;not null"`
	MessageID *uint     `json:"message_id,omitempty" gorm:"index"`
	IsRead    bool      `json:"is_read" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification types form a closed set.
const (
	NotificationDirectMessage = "direct_message"
	NotificationCommentReply  = "comment_reply"
)

// Comment is a node in the reply tree under exactly one post. Depth and Path
// are assigned once, right after the row receives its id, and never change.
// Path is the dot-joined chain of zero-padded ancestor ids ending in the
// comment's own id (see path.go for the encoding contract).
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"index;not null"`
	ParentID  *uint     `json:"parent_id,omitempty" gorm:"index"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Depth     int       `json:"depth" gorm:"not null;default:0"`
	// Path size must match PathColumnSize; nesting beyond MaxCommentDepth
	// is rejected at insert.
	Path      string    `json:"path" gorm:"size:512;index"`
	CreatedAt time.Time `json:"created_at"`
}

// Thread is the derived per-counterpart view over the message table. It is
// reconstructed at query time and never stored.
type Thread struct {
	CounterpartID   uint     `json:"counterpart_id"`
	CounterpartName string   `json:"counterpart_name"`
	LastMessage     *Message `json:"last_message"`
	UnreadCount     int      `json:"unread_count"`
}
