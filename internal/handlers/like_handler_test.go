package handlers

import (
	"net/http"
	"testing"

	"github.com/anonto42/threads-service/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedPost(t *testing.T, repo *fakePostRepo, owner models.UserSnapshot, title string) *models.Post {
	t.Helper()
	post := &models.Post{User: owner, Title: title}
	require.NoError(t, repo.CreatePost(nil, post), "creating post")
	return post
}

func TestUpdateLikesToggle(t *testing.T) {
	postRepo := newFakePostRepo()
	notifRepo := &fakeNotificationRepo{}
	h := NewLikeHandler(postRepo, notifRepo)

	owner := models.UserSnapshot{ID: primitive.NewObjectID(), Name: "alice", UserName: "alice1"}
	liker := models.UserSnapshot{ID: primitive.NewObjectID(), Name: "bob", UserName: "bob1"}
	post := seedPost(t, postRepo, owner, "hello world")

	req := models.UpdateLikesRequest{User: liker, PostID: post.ID.Hex()}

	// First toggle adds the like and notifies the owner
	c, _ := newJSONContext(t, http.MethodPut, "/update-likes", req)
	require.NoError(t, h.UpdateLikes(c))
	require.Len(t, post.Likes, 1)
	assert.Equal(t, liker.ID.Hex(), post.Likes[0].UserID)
	assert.Equal(t, post.ID.Hex(), post.Likes[0].PostID, "post-level like must carry the post id")

	require.Len(t, notifRepo.notifications, 1)
	n := notifRepo.notifications[0]
	assert.Equal(t, models.NotificationLike, n.Type)
	assert.Equal(t, owner.ID.Hex(), n.UserID)
	assert.Equal(t, post.ID.Hex(), n.PostID)
	assert.Equal(t, "hello world", n.Title)

	// Second toggle removes the like and retracts the notification
	c, _ = newJSONContext(t, http.MethodPut, "/update-likes", req)
	require.NoError(t, h.UpdateLikes(c))
	assert.Empty(t, post.Likes, "like list must be back to empty")
	assert.Empty(t, notifRepo.notifications, "notification must be retracted")
}

func TestUpdateLikesOwnPostNeverNotifies(t *testing.T) {
	postRepo := newFakePostRepo()
	notifRepo := &fakeNotificationRepo{}
	h := NewLikeHandler(postRepo, notifRepo)

	owner := models.UserSnapshot{ID: primitive.NewObjectID(), Name: "alice", UserName: "alice1"}
	post := seedPost(t, postRepo, owner, "my own post")

	req := models.UpdateLikesRequest{User: owner, PostID: post.ID.Hex()}
	for i := 0; i < 3; i++ {
		c, _ := newJSONContext(t, http.MethodPut, "/update-likes", req)
		require.NoError(t, h.UpdateLikes(c), "toggle %d", i)
		require.Empty(t, notifRepo.notifications, "self-like must never notify")
	}
	assert.Len(t, post.Likes, 1, "odd toggle count should leave one like")
}

func TestUpdateLikesUnknownPost(t *testing.T) {
	h := NewLikeHandler(newFakePostRepo(), &fakeNotificationRepo{})

	c, _ := newJSONContext(t, http.MethodPut, "/update-likes", models.UpdateLikesRequest{
		User:   models.UserSnapshot{ID: primitive.NewObjectID()},
		PostID: primitive.NewObjectID().Hex(),
	})
	code, msg := httpErrorCode(t, h.UpdateLikes(c))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Post not found", msg)
}

func TestReplyLikeToggle(t *testing.T) {
	postRepo := newFakePostRepo()
	notifRepo := &fakeNotificationRepo{}
	h := NewLikeHandler(postRepo, notifRepo)

	owner := models.UserSnapshot{ID: primitive.NewObjectID(), Name: "alice", UserName: "alice1"}
	liker := models.UserSnapshot{ID: primitive.NewObjectID(), Name: "bob", UserName: "bob1"}

	post := seedPost(t, postRepo, owner, "root")
	reply := models.NewReply(owner, "a reply", nil)
	post.Replies = append(post.Replies, reply)

	req := models.UpdateReplyLikesRequest{
		User: liker, PostID: post.ID.Hex(), ReplyID: reply.ID.Hex(), ReplyTitle: "a reply",
	}

	c, _ := newJSONContext(t, http.MethodPut, "/update-replies-react", req)
	require.NoError(t, h.UpdateReplyLikes(c))
	got := post.FindReply(reply.ID.Hex())
	require.Len(t, got.Likes, 1)
	assert.Equal(t, liker.ID.Hex(), got.Likes[0].UserID)
	require.Len(t, notifRepo.notifications, 1)
	assert.Equal(t, post.ID.Hex(), notifRepo.notifications[0].PostID, "notification must be post-scoped")

	c, _ = newJSONContext(t, http.MethodPut, "/update-replies-react", req)
	require.NoError(t, h.UpdateReplyLikes(c))
	assert.Empty(t, post.FindReply(reply.ID.Hex()).Likes, "like must be removed")
	assert.Empty(t, notifRepo.notifications, "notification must be retracted")
}

func TestReplyLikeUnknownReply(t *testing.T) {
	postRepo := newFakePostRepo()
	h := NewLikeHandler(postRepo, &fakeNotificationRepo{})

	owner := models.UserSnapshot{ID: primitive.NewObjectID(), Name: "alice", UserName: "alice1"}
	post := seedPost(t, postRepo, owner, "root")

	c, _ := newJSONContext(t, http.MethodPut, "/update-replies-react", models.UpdateReplyLikesRequest{
		User:    models.UserSnapshot{ID: primitive.NewObjectID()},
		PostID:  post.ID.Hex(),
		ReplyID: primitive.NewObjectID().Hex(),
	})
	code, msg := httpErrorCode(t, h.UpdateReplyLikes(c))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Reply not found", msg)
}

func TestNestedReplyLikeToggle(t *testing.T) {
	postRepo := newFakePostRepo()
	notifRepo := &fakeNotificationRepo{}
	h := NewLikeHandler(postRepo, notifRepo)

	owner := models.UserSnapshot{ID: primitive.NewObjectID(), Name: "alice", UserName: "alice1"}
	liker := models.UserSnapshot{ID: primitive.NewObjectID(), Name: "bob", UserName: "bob1"}

	post := seedPost(t, postRepo, owner, "root")
	nested := models.NewReply(owner, "nested", nil)
	reply := models.NewReply(owner, "first", nil)
	reply.Reply = []models.Reply{nested}
	post.Replies = append(post.Replies, reply)

	req := models.UpdateNestedReplyLikesRequest{
		User:          liker,
		PostID:        post.ID.Hex(),
		ReplyID:       reply.ID.Hex(),
		SingleReplyID: nested.ID.Hex(),
	}

	c, _ := newJSONContext(t, http.MethodPut, "/update-reply-react", req)
	require.NoError(t, h.UpdateNestedReplyLikes(c))
	got := post.FindReply(reply.ID.Hex(), nested.ID.Hex())
	require.Len(t, got.Likes, 1)
	assert.Equal(t, liker.ID.Hex(), got.Likes[0].UserID)
	require.Len(t, notifRepo.notifications, 1)
	assert.Equal(t, "Liked your Reply", notifRepo.notifications[0].Title, "fallback title expected")

	c, _ = newJSONContext(t, http.MethodPut, "/update-reply-react", req)
	require.NoError(t, h.UpdateNestedReplyLikes(c))
	assert.Empty(t, post.FindReply(reply.ID.Hex(), nested.ID.Hex()).Likes, "nested like must be removed")
	assert.Empty(t, notifRepo.notifications, "notification must be retracted")
}
