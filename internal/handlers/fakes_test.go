package handlers

import (
	"context"

	"github.com/anonto42/threads-service/backend/internal/models"
	"github.com/anonto42/threads-service/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes used by the handler tests.

type fakeUserRepo struct {
	users map[string]*models.User // keyed by hex id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicateEmail
		}
	}
	user.ID = primitive.NewObjectID()
	if user.Followers == nil {
		user.Followers = []models.FollowEdge{}
	}
	if user.Following == nil {
		user.Following = []models.FollowEdge{}
	}
	r.users[user.ID.Hex()] = user
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetUsersExcept(_ context.Context, excludeID string) ([]models.User, error) {
	var users []models.User
	for id, user := range r.users {
		if id != excludeID {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID.Hex()]; !ok {
		return repositories.ErrNotFound
	}
	r.users[user.ID.Hex()] = user
	return nil
}

func (r *fakeUserRepo) AddFollowing(_ context.Context, userID, targetID string) error {
	if user, ok := r.users[userID]; ok {
		user.Following = append(user.Following, models.FollowEdge{UserID: targetID})
	}
	return nil
}

func (r *fakeUserRepo) RemoveFollowing(_ context.Context, userID, targetID string) error {
	if user, ok := r.users[userID]; ok {
		user.Following = removeEdge(user.Following, targetID)
	}
	return nil
}

func (r *fakeUserRepo) AddFollower(_ context.Context, userID, followerID string) error {
	if user, ok := r.users[userID]; ok {
		user.Followers = append(user.Followers, models.FollowEdge{UserID: followerID})
	}
	return nil
}

func (r *fakeUserRepo) RemoveFollower(_ context.Context, userID, followerID string) error {
	if user, ok := r.users[userID]; ok {
		user.Followers = removeEdge(user.Followers, followerID)
	}
	return nil
}

func (r *fakeUserRepo) EnsureIndexes(context.Context) error { return nil }

func removeEdge(edges []models.FollowEdge, id string) []models.FollowEdge {
	out := edges[:0]
	for _, e := range edges {
		if e.UserID != id {
			out = append(out, e)
		}
	}
	return out
}

type fakePostRepo struct {
	posts map[string]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[string]*models.Post{}}
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	if post.Likes == nil {
		post.Likes = []models.Like{}
	}
	if post.Replies == nil {
		post.Replies = []models.Reply{}
	}
	r.posts[post.ID.Hex()] = post
	return nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	if post, ok := r.posts[id]; ok {
		return post, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *fakePostRepo) GetAllPosts(context.Context) ([]models.Post, error) {
	var posts []models.Post
	for _, p := range r.posts {
		posts = append(posts, *p)
	}
	return posts, nil
}

func (r *fakePostRepo) ReplacePost(_ context.Context, post *models.Post) error {
	if _, ok := r.posts[post.ID.Hex()]; !ok {
		return repositories.ErrNotFound
	}
	r.posts[post.ID.Hex()] = post
	return nil
}

func (r *fakePostRepo) DeletePost(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) PushLike(_ context.Context, postID string, like models.Like) error {
	if post, ok := r.posts[postID]; ok {
		post.Likes = append(post.Likes, like)
	}
	return nil
}

func (r *fakePostRepo) PullLike(_ context.Context, postID, userID string) error {
	post, ok := r.posts[postID]
	if !ok {
		return nil
	}
	out := post.Likes[:0]
	for _, l := range post.Likes {
		if l.UserID != userID {
			out = append(out, l)
		}
	}
	post.Likes = out
	return nil
}

type fakeNotificationRepo struct {
	notifications []models.Notification
}

func (r *fakeNotificationRepo) Emit(_ context.Context, n *models.Notification) error {
	if n.Creator.ID.Hex() == n.UserID {
		return nil
	}
	n.ID = primitive.NewObjectID()
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *fakeNotificationRepo) Retract(_ context.Context, notifType, creatorID, recipientID, postID string) error {
	for i, n := range r.notifications {
		if n.Type == notifType && n.Creator.ID.Hex() == creatorID && n.UserID == recipientID &&
			(postID == "" || n.PostID == postID) {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeNotificationRepo) GetByRecipient(_ context.Context, recipientID string) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range r.notifications {
		if n.UserID == recipientID {
			out = append(out, n)
		}
	}
	return out, nil
}

type fakeUploader struct {
	uploads   int
	destroyed []string
}

func (u *fakeUploader) Upload(_ context.Context, folder, _ string) (string, string, error) {
	u.uploads++
	id := primitive.NewObjectID().Hex()
	return folder + "/" + id, "https://storage.example/" + folder + "/" + id, nil
}

func (u *fakeUploader) Destroy(_ context.Context, publicID string) error {
	u.destroyed = append(u.destroyed, publicID)
	return nil
}
