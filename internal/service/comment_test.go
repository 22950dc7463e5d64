package service

import (
	"context"
	"testing"

	"github.com/campusfeed/campusfeed/internal/domain"
	"github.com/campusfeed/campusfeed/internal/storage/inmemory"
	"github.com/campusfeed/campusfeed/internal/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommentFixture(t *testing.T) (*CommentService, *inmemory.Store, *recordingBus, *domain.User, *domain.User, *domain.Post) {
	t.Helper()
	store := inmemory.New()
	bus := &recordingBus{}
	svc := NewCommentService(store, bus)

	ctx := context.Background()
	alice, err := store.CreateUser(ctx, &domain.User{Name: "Alice", Email: "alice@campus.test"})
	require.NoError(t, err)
	bob, err := store.CreateUser(ctx, &domain.User{Name: "Bob", Email: "bob@campus.test"})
	require.NoError(t, err)
	post, err := store.CreatePost(ctx, &domain.Post{UserID: alice.ID, Title: "Exam schedule"})
	require.NoError(t, err)
	return svc, store, bus, alice, bob, post
}

func TestAddComment_PathInvariants(t *testing.T) {
	svc, _, _, alice, bob, post := newCommentFixture(t)
	ctx := context.Background()

	root, err := svc.AddComment(ctx, post.ID, alice.ID, "root", nil)
	require.NoError(t, err)
	child, err := svc.AddComment(ctx, post.ID, bob.ID, "child", &root.ID)
	require.NoError(t, err)

	assert.True(t, domain.IsAncestorPath(root.Path, child.Path))
	assert.Equal(t, root.Depth+1, child.Depth)
	assert.Equal(t, child.Depth, domain.PathDepth(child.Path))
}

func TestAddComment_UnknownAuthorOrPost(t *testing.T) {
	svc, _, _, alice, _, post := newCommentFixture(t)
	ctx := context.Background()

	_, err := svc.AddComment(ctx, post.ID, 999, "ghost", nil)
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	_, err = svc.AddComment(ctx, 999, alice.ID, "on nothing", nil)
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestAddComment_ReplyNotifiesParentAuthor(t *testing.T) {
	svc, store, bus, alice, bob, post := newCommentFixture(t)
	ctx := context.Background()

	root, err := svc.AddComment(ctx, post.ID, alice.ID, "root", nil)
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, post.ID, bob.ID, "reply", &root.ID)
	require.NoError(t, err)

	events := bus.named(ws.EventNotificationNew)
	require.Len(t, events, 1)
	assert.Equal(t, ws.RoomForUser(alice.ID), events[0].room)
	payload := events[0].event.Payload.(ws.NotificationPayload)
	assert.Equal(t, domain.NotificationCommentReply, payload.Type)
	assert.Equal(t, "Bob", payload.ActorName)

	unread, err := store.ListUnreadNotifications(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, bob.ID, unread[0].ActorID)
}

func TestAddComment_NoNotificationForSelfReply(t *testing.T) {
	svc, store, bus, alice, _, post := newCommentFixture(t)
	ctx := context.Background()

	root, err := svc.AddComment(ctx, post.ID, alice.ID, "root", nil)
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, post.ID, alice.ID, "me again", &root.ID)
	require.NoError(t, err)

	assert.Empty(t, bus.named(ws.EventNotificationNew))
	unread, err := store.ListUnreadNotifications(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

// Two roots with a reply in between: pre-order keeps the reply attached to
// its parent, not interleaved by creation time.
func TestListForPost_TreeOrder(t *testing.T) {
	svc, _, _, alice, bob, post := newCommentFixture(t)
	ctx := context.Background()

	c1, err := svc.AddComment(ctx, post.ID, alice.ID, "C1", nil)
	require.NoError(t, err)
	c2, err := svc.AddComment(ctx, post.ID, bob.ID, "C2", &c1.ID)
	require.NoError(t, err)
	c3, err := svc.AddComment(ctx, post.ID, bob.ID, "C3", nil)
	require.NoError(t, err)

	list, err := svc.ListForPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []uint{c1.ID, c2.ID, c3.ID}, []uint{list[0].ID, list[1].ID, list[2].ID})
	assert.Equal(t, []int{0, 1, 0}, []int{list[0].Depth, list[1].Depth, list[2].Depth})
}

func TestListForPost_UnknownPost(t *testing.T) {
	svc, _, _, _, _, _ := newCommentFixture(t)

	_, err := svc.ListForPost(context.Background(), 999)
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}
