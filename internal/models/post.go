package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Like is a value object attached to a post or a reply at either depth.
// PostID is set for post-level likes only.
type Like struct {
	Name       string `json:"name" bson:"name"`
	UserName   string `json:"userName" bson:"userName"`
	UserID     string `json:"userId" bson:"userId"`
	UserAvatar string `json:"userAvatar,omitempty" bson:"userAvatar,omitempty"`
	PostID     string `json:"postId,omitempty" bson:"postId,omitempty"`
}

// Reply is one node of the reply thread. The schema is recursive but the API
// writes at most two levels: replies on a post and replies on those replies.
type Reply struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	User      UserSnapshot       `json:"user" bson:"user"`
	Title     string             `json:"title" bson:"title"`
	Image     *Image             `json:"image,omitempty" bson:"image,omitempty"`
	Likes     []Like             `json:"likes" bson:"likes"`
	Reply     []Reply            `json:"reply,omitempty" bson:"reply,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Post represents a root content document stored in MongoDB. Replies and likes
// live inside the document and have no independent lifecycle.
type Post struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	User      UserSnapshot       `json:"user" bson:"user"`
	Title     string             `json:"title" bson:"title"`
	Image     *Image             `json:"image,omitempty" bson:"image,omitempty"`
	Likes     []Like             `json:"likes" bson:"likes"`
	Replies   []Reply            `json:"replies" bson:"replies"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// NewReply builds a reply node with a generated id and an empty like list.
func NewReply(user UserSnapshot, title string, image *Image) Reply {
	now := time.Now()
	return Reply{
		ID:        primitive.NewObjectID(),
		User:      user,
		Title:     title,
		Image:     image,
		Likes:     []Like{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FindReply locates a reply node by walking the given id path, one id per
// nesting level. A nil return means some segment of the path did not match.
func (p *Post) FindReply(path ...string) *Reply {
	nodes := p.Replies
	var found *Reply
	for _, id := range path {
		found = nil
		for i := range nodes {
			if nodes[i].ID.Hex() == id {
				found = &nodes[i]
				break
			}
		}
		if found == nil {
			return nil
		}
		nodes = found.Reply
	}
	return found
}

// ToggleLike flips the acting user's membership in the like list. It returns
// the updated list and whether a like was added (false means removed).
func ToggleLike(likes []Like, user UserSnapshot, postID string) ([]Like, bool) {
	userID := user.ID.Hex()
	for i := range likes {
		if likes[i].UserID == userID {
			return append(likes[:i:i], likes[i+1:]...), false
		}
	}
	return append(likes, Like{
		Name:       user.Name,
		UserName:   user.UserName,
		UserID:     userID,
		UserAvatar: user.AvatarURL(),
		PostID:     postID,
	}), true
}

// HasLikeBy reports whether the like list contains an entry by the given user.
func HasLikeBy(likes []Like, userID string) bool {
	for _, l := range likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

// SeedReply is one pre-built reply accepted by the create-post endpoint.
type SeedReply struct {
	User  UserSnapshot `json:"user"`
	Title string       `json:"title"`
	Image string       `json:"image,omitempty"`
}

type CreatePostRequest struct {
	User    UserSnapshot `json:"user"`
	Title   string       `json:"title" validate:"required"`
	Image   string       `json:"image,omitempty"`
	Replies []SeedReply  `json:"replies"`
}

type AddRepliesRequest struct {
	User   UserSnapshot `json:"user"`
	PostID string       `json:"postId" validate:"required"`
	Title  string       `json:"title"`
	Image  string       `json:"image,omitempty"`
}

// AddReplyRequest extends a depth-1 reply: PostID addresses the post document,
// ReplyID the reply being extended.
type AddReplyRequest struct {
	User    UserSnapshot `json:"user"`
	PostID  string       `json:"postId" validate:"required"`
	ReplyID string       `json:"replyId" validate:"required"`
	Title   string       `json:"title"`
	Image   string       `json:"image,omitempty"`
}

type UpdateLikesRequest struct {
	User   UserSnapshot `json:"user"`
	PostID string       `json:"postId" validate:"required"`
}

type UpdateReplyLikesRequest struct {
	User       UserSnapshot `json:"user"`
	PostID     string       `json:"postId" validate:"required"`
	ReplyID    string       `json:"replyId" validate:"required"`
	ReplyTitle string       `json:"replyTitle"`
}

type UpdateNestedReplyLikesRequest struct {
	User          UserSnapshot `json:"user"`
	PostID        string       `json:"postId" validate:"required"`
	ReplyID       string       `json:"replyId" validate:"required"`
	SingleReplyID string       `json:"singleReplyId" validate:"required"`
	ReplyTitle    string       `json:"replyTitle"`
}
