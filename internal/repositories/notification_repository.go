package repositories

import (
	"context"
	"time"

	"github.com/anonto42/threads-service/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepository defines the notification fan-out operations. Emit
// skips self-notifications; Retract deletes at most one record matching the
// same field tuple used at creation time for that type.
type NotificationRepository interface {
	Emit(ctx context.Context, n *models.Notification) error
	Retract(ctx context.Context, notifType, creatorID, recipientID, postID string) error
	GetByRecipient(ctx context.Context, recipientID string) ([]models.Notification, error)
}

// MongoNotificationRepository implements NotificationRepository for MongoDB
type MongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a new MongoNotificationRepository
func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection("notifications")}
}

// Emit creates one notification record unless the creator is the recipient.
func (r *MongoNotificationRepository) Emit(ctx context.Context, n *models.Notification) error {
	if n.Creator.ID.Hex() == n.UserID {
		return nil
	}
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()
	n.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, n)
	return err
}

// Retract deletes at most one notification matching the creation-time field
// tuple. The match is by fields, not by a foreign key, so it is an approximate
// inverse of Emit. postID is empty for Follow and post-level Like retractions.
func (r *MongoNotificationRepository) Retract(ctx context.Context, notifType, creatorID, recipientID, postID string) error {
	creatorObjID, err := primitive.ObjectIDFromHex(creatorID)
	if err != nil {
		return err
	}
	filter := bson.M{
		"creator._id": creatorObjID,
		"userId":      recipientID,
		"type":        notifType,
	}
	if postID != "" {
		filter["postId"] = postID
	}
	_, err = r.collection.DeleteOne(ctx, filter)
	return err
}

// GetByRecipient retrieves a user's notifications, newest first.
func (r *MongoNotificationRepository) GetByRecipient(ctx context.Context, recipientID string) ([]models.Notification, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": recipientID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}
