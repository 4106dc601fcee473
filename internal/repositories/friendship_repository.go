package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/socialchat/gateway/internal/errs"
	"github.com/socialchat/gateway/internal/models"
)

// FriendshipRepository defines the interface for friendship document
// operations. Rejection deletes the document (there is no rejected status
// at rest), mirroring how removal is inferred from record absence.
type FriendshipRepository interface {
	Create(ctx context.Context, senderID, receiverID string) (*models.Friendship, error)
	GetByID(ctx context.Context, id string) (*models.Friendship, error)
	Accept(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	ListPendingFor(ctx context.Context, userID string) ([]models.Friendship, error)
	ListAcceptedFor(ctx context.Context, userID string) ([]models.Friendship, error)
	AreFriends(ctx context.Context, userA, userB string) (bool, error)
}

// MongoFriendshipRepository implements FriendshipRepository for MongoDB.
type MongoFriendshipRepository struct {
	collection *mongo.Collection
}

// NewMongoFriendshipRepository creates a new MongoFriendshipRepository.
func NewMongoFriendshipRepository(db *mongo.Database) *MongoFriendshipRepository {
	return &MongoFriendshipRepository{collection: db.Collection("friends")}
}

// Create inserts a pending friend request unless one already links the pair
// in either direction.
func (r *MongoFriendshipRepository) Create(ctx context.Context, senderID, receiverID string) (*models.Friendship, error) {
	existing := r.collection.FindOne(ctx, pairFilter(senderID, receiverID))
	if err := existing.Err(); err == nil {
		return nil, errs.ErrAlreadyExists
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	now := time.Now()
	friendship := &models.Friendship{
		ID:         primitive.NewObjectID(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     models.FriendshipPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := r.collection.InsertOne(ctx, friendship); err != nil {
		return nil, err
	}
	return friendship, nil
}

// GetByID retrieves a friendship by ID.
func (r *MongoFriendshipRepository) GetByID(ctx context.Context, id string) (*models.Friendship, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid friendship ID format: %w", err)
	}

	var friendship models.Friendship
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&friendship)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &friendship, nil
}

// Accept moves a pending request to accepted.
func (r *MongoFriendshipRepository) Accept(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid friendship ID format: %w", err)
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "status": models.FriendshipPending},
		bson.M{"$set": bson.M{"status": models.FriendshipAccepted, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a friendship document (rejection or unfriending).
func (r *MongoFriendshipRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid friendship ID format: %w", err)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ListPendingFor retrieves requests awaiting the user's decision.
func (r *MongoFriendshipRepository) ListPendingFor(ctx context.Context, userID string) ([]models.Friendship, error) {
	return r.find(ctx, bson.M{"receiver_id": userID, "status": models.FriendshipPending})
}

// ListAcceptedFor retrieves accepted friendships involving the user.
func (r *MongoFriendshipRepository) ListAcceptedFor(ctx context.Context, userID string) ([]models.Friendship, error) {
	return r.find(ctx, bson.M{
		"status": models.FriendshipAccepted,
		"$or": bson.A{
			bson.M{"sender_id": userID},
			bson.M{"receiver_id": userID},
		},
	})
}

// AreFriends reports whether an accepted friendship links the pair.
func (r *MongoFriendshipRepository) AreFriends(ctx context.Context, userA, userB string) (bool, error) {
	filter := pairFilter(userA, userB)
	filter["status"] = models.FriendshipAccepted
	count, err := r.collection.CountDocuments(ctx, filter)
	return count > 0, err
}

func (r *MongoFriendshipRepository) find(ctx context.Context, filter bson.M) ([]models.Friendship, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var friendships []models.Friendship
	if err = cursor.All(ctx, &friendships); err != nil {
		return nil, err
	}
	return friendships, nil
}

// pairFilter matches a friendship between two users in either direction.
func pairFilter(a, b string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"sender_id": a, "receiver_id": b},
		bson.M{"sender_id": b, "receiver_id": a},
	}}
}
