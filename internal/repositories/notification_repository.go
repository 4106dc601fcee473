package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/socialchat/gateway/internal/errs"
	"github.com/socialchat/gateway/internal/models"
)

// NotificationRepository defines the interface for notification document
// operations. Deletion is a deleted_at tombstone so the listener query can
// exclude removed rows without delete-event propagation.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListActive(ctx context.Context, ownerID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, ownerID string) error
	MarkAllRead(ctx context.Context, ownerID string) error
	SoftDelete(ctx context.Context, id, ownerID string) error
}

// MongoNotificationRepository implements NotificationRepository for MongoDB.
type MongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a new MongoNotificationRepository.
func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection("notifications")}
}

// Create inserts a new unread notification.
func (r *MongoNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()
	notification.Read = false
	notification.DeletedAt = nil
	_, err := r.collection.InsertOne(ctx, notification)
	return err
}

// ListActive retrieves the owner's non-tombstoned notifications newest-first.
func (r *MongoNotificationRepository) ListActive(ctx context.Context, ownerID string) ([]models.Notification, error) {
	filter := bson.M{
		"user_id":    ownerID,
		"deleted_at": bson.M{"$exists": false},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
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

// MarkRead flips the read flag on one of the owner's notifications.
func (r *MongoNotificationRepository) MarkRead(ctx context.Context, id, ownerID string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid notification ID format: %w", err)
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "user_id": ownerID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// MarkAllRead flips the read flag on every active notification of the owner.
func (r *MongoNotificationRepository) MarkAllRead(ctx context.Context, ownerID string) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"user_id": ownerID, "read": false, "deleted_at": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"read": true}},
	)
	return err
}

// SoftDelete sets the tombstone timestamp instead of removing the document.
func (r *MongoNotificationRepository) SoftDelete(ctx context.Context, id, ownerID string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid notification ID format: %w", err)
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "user_id": ownerID, "deleted_at": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"deleted_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}
