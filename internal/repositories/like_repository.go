package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/socialchat/gateway/internal/errs"
	"github.com/socialchat/gateway/internal/models"
)

// LikeRepository defines the interface for like document operations.
type LikeRepository interface {
	Create(ctx context.Context, postID, userID string) error
	Delete(ctx context.Context, postID, userID string) error
	Exists(ctx context.Context, postID, userID string) (bool, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
}

// MongoLikeRepository implements LikeRepository for MongoDB. The document
// ID is the deterministic post:user composite key, so a second like for
// the same pair fails on the primary key instead of creating a duplicate.
type MongoLikeRepository struct {
	collection *mongo.Collection
}

// NewMongoLikeRepository creates a new MongoLikeRepository.
func NewMongoLikeRepository(db *mongo.Database) *MongoLikeRepository {
	return &MongoLikeRepository{collection: db.Collection("likes")}
}

// Create inserts the like for (post, user). Returns errs.ErrAlreadyExists
// when the pair is already liked, regardless of write interleaving.
func (r *MongoLikeRepository) Create(ctx context.Context, postID, userID string) error {
	like := models.Like{
		ID:        models.LikeID(postID, userID),
		PostID:    postID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	_, err := r.collection.InsertOne(ctx, like)
	if mongo.IsDuplicateKeyError(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// Delete removes the like for (post, user).
func (r *MongoLikeRepository) Delete(ctx context.Context, postID, userID string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": models.LikeID(postID, userID)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Exists reports whether the pair is already liked.
func (r *MongoLikeRepository) Exists(ctx context.Context, postID, userID string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": models.LikeID(postID, userID)})
	return count > 0, err
}

// CountByPost counts likes from the authoritative collection, not the
// denormalized post counter.
func (r *MongoLikeRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"post_id": postID})
}
