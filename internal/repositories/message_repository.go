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

// MessageRepository defines the interface for message document operations.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	Conversation(ctx context.Context, userA, userB string) ([]models.Message, error)
	MarkRead(ctx context.Context, id, receiverID string) error
	UnreadCount(ctx context.Context, receiverID string) (int64, error)
}

// MongoMessageRepository implements MessageRepository for MongoDB.
type MongoMessageRepository struct {
	collection *mongo.Collection
}

// NewMongoMessageRepository creates a new MongoMessageRepository.
func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{collection: db.Collection("messages")}
}

// Create inserts a new unread message.
func (r *MongoMessageRepository) Create(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()
	message.Read = false
	_, err := r.collection.InsertOne(ctx, message)
	return err
}

// Conversation retrieves all messages between two users oldest-first.
func (r *MongoMessageRepository) Conversation(ctx context.Context, userA, userB string) ([]models.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender_id": userA, "receiver_id": userB},
		bson.M{"sender_id": userB, "receiver_id": userA},
	}}
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkRead flips the read flag. Only the receiver may mutate a message, so
// the filter includes receiver_id and anyone else gets ErrNotFound.
func (r *MongoMessageRepository) MarkRead(ctx context.Context, id, receiverID string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid message ID format: %w", err)
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "receiver_id": receiverID},
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

// UnreadCount counts unread messages addressed to the user.
func (r *MongoMessageRepository) UnreadCount(ctx context.Context, receiverID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"receiver_id": receiverID, "read": false})
}
