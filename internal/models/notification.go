package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types emitted by social actions.
const (
	NotificationLike   = "Like"
	NotificationReply  = "Reply"
	NotificationFollow = "Follow"
)

// Notification is a derived record created as a side effect of a positive
// social action and deleted when the action is undone. It relates to users and
// posts by id fields only, never by ownership.
type Notification struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Creator   UserSnapshot       `json:"creator" bson:"creator"`
	Type      string             `json:"type" bson:"type"`
	Title     string             `json:"title,omitempty" bson:"title,omitempty"`
	UserID    string             `json:"userId" bson:"userId"` // recipient
	PostID    string             `json:"postId,omitempty" bson:"postId,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}
