package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Image holds a stored image reference: the storage object id and its public URL.
type Image struct {
	PublicID string `json:"public_id" bson:"public_id"`
	URL      string `json:"url" bson:"url"`
}

// FollowEdge is one entry of a user's followers/following list.
type FollowEdge struct {
	UserID string `json:"userId" bson:"userId"`
}

// User represents a user account stored in MongoDB
type User struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	UserName  string             `json:"userName" bson:"userName"`
	Bio       string             `json:"bio,omitempty" bson:"bio,omitempty"`
	Email     string             `json:"email" bson:"email"` // Unique index, see EnsureIndexes
	Password  string             `json:"-" bson:"password"`  // Store hashed password, ignore for JSON serialization
	Avatar    *Image             `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Followers []FollowEdge       `json:"followers" bson:"followers"`
	Following []FollowEdge       `json:"following" bson:"following"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// UserSnapshot is the denormalized copy of a user embedded in posts, replies
// and notifications at write time. It is not a live reference.
type UserSnapshot struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id"`
	Name     string             `json:"name" bson:"name"`
	UserName string             `json:"userName" bson:"userName"`
	Avatar   *Image             `json:"avatar,omitempty" bson:"avatar,omitempty"`
}

// Snapshot returns the embeddable copy of the user.
func (u *User) Snapshot() UserSnapshot {
	return UserSnapshot{
		ID:       u.ID,
		Name:     u.Name,
		UserName: u.UserName,
		Avatar:   u.Avatar,
	}
}

// IsFollowing reports whether userID is present in the user's following list.
func (u *User) IsFollowing(userID string) bool {
	for _, edge := range u.Following {
		if edge.UserID == userID {
			return true
		}
	}
	return false
}

// AvatarURL returns the avatar URL or an empty string when no avatar is set.
func (s UserSnapshot) AvatarURL() string {
	if s.Avatar == nil {
		return ""
	}
	return s.Avatar.URL
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Avatar   string `json:"avatar,omitempty"` // base64 payload, optional
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type FollowRequest struct {
	User         UserSnapshot `json:"user"`
	FollowUserID string       `json:"followUserId" validate:"required"`
}

type UpdateAvatarRequest struct {
	User   UserSnapshot `json:"user"`
	Avatar string       `json:"avatar" validate:"required"`
}

type UpdateProfileRequest struct {
	User     UserSnapshot `json:"user"`
	Name     string       `json:"name"`
	UserName string       `json:"userName"`
	Bio      string       `json:"bio"`
}

// TokenClaims are custom claims extending standard jwt.RegisteredClaims
type TokenClaims struct {
	ID string `json:"id"` // hex user id
	jwt.RegisteredClaims
}
