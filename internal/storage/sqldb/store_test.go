package sqldb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/campusfeed/campusfeed/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return store
}

func TestSQLite_MessageRoundTrip(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	alice, err := store.CreateUser(ctx, &domain.User{Name: "Alice", Email: "alice@campus.test"})
	require.NoError(t, err)
	bob, err := store.CreateUser(ctx, &domain.User{Name: "Bob", Email: "bob@campus.test"})
	require.NoError(t, err)

	sent, err := store.CreateMessage(ctx, &domain.Message{SenderID: alice.ID, RecipientID: bob.ID, Content: "hi"})
	require.NoError(t, err)
	require.NotZero(t, sent.ID)

	msgs, err := store.ConversationBetween(ctx, bob.ID, alice.ID, 50)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.False(t, msgs[0].IsRead)

	n, err := store.CountUnreadMessages(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, store.MarkMessageRead(ctx, sent.ID))
	n, err = store.CountUnreadMessages(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestSQLite_CreateUser_DuplicateEmail(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	_, err := store.CreateUser(ctx, &domain.User{Name: "Alice", Email: "alice@campus.test"})
	require.NoError(t, err)

	_, err = store.CreateUser(ctx, &domain.User{Name: "Impostor", Email: "alice@campus.test"})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestSQLite_MarkMessageRead_Unknown(t *testing.T) {
	store := newSQLiteStore(t)

	err := store.MarkMessageRead(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestSQLite_CommentTwoPhaseInsert(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	alice, err := store.CreateUser(ctx, &domain.User{Name: "Alice", Email: "alice@campus.test"})
	require.NoError(t, err)
	post, err := store.CreatePost(ctx, &domain.Post{UserID: alice.ID, Title: "Hello"})
	require.NoError(t, err)

	root, err := store.CreateComment(ctx, &domain.Comment{PostID: post.ID, UserID: alice.ID, Content: "root"})
	require.NoError(t, err)
	child, err := store.CreateComment(ctx, &domain.Comment{PostID: post.ID, ParentID: &root.ID, UserID: alice.ID, Content: "child"})
	require.NoError(t, err)
	sibling, err := store.CreateComment(ctx, &domain.Comment{PostID: post.ID, UserID: alice.ID, Content: "sibling"})
	require.NoError(t, err)

	// Persisted rows, not just the returned structs, must carry the path.
	stored, err := store.GetCommentByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ChildPath(root.Path, child.ID), stored.Path)
	assert.Equal(t, 1, stored.Depth)

	list, err := store.ListCommentsForPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []uint{root.ID, child.ID, sibling.ID}, []uint{list[0].ID, list[1].ID, list[2].ID})
}

func TestSQLite_NotificationSweep(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	alice, err := store.CreateUser(ctx, &domain.User{Name: "Alice", Email: "alice@campus.test"})
	require.NoError(t, err)
	bob, err := store.CreateUser(ctx, &domain.User{Name: "Bob", Email: "bob@campus.test"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = store.CreateNotification(ctx, &domain.Notification{
			UserID: bob.ID, ActorID: alice.ID, Type: domain.NotificationDirectMessage, Content: "ping",
		})
		require.NoError(t, err)
	}

	updated, err := store.MarkNotificationsReadByActor(ctx, bob.ID, alice.ID, domain.NotificationDirectMessage)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	unread, err := store.ListUnreadNotifications(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, unread)
}
