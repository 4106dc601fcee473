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
	"github.com/socialchat/gateway/internal/store"
)

// PostRepository defines the interface for post document operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, skip, limit int64) ([]models.Post, error)
	ListByUser(ctx context.Context, userID string, skip, limit int64) ([]models.Post, error)
	Update(ctx context.Context, id string, updates bson.M) error
	DeleteCascade(ctx context.Context, id string) error
	AdjustLikesCount(ctx context.Context, id string, delta int) error
	AdjustCommentsCount(ctx context.Context, id string, delta int) error
}

// MongoPostRepository implements PostRepository for MongoDB.
type MongoPostRepository struct {
	client   *mongo.Client
	posts    *mongo.Collection
	comments *mongo.Collection
	likes    *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository.
func NewMongoPostRepository(client *mongo.Client, db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{
		client:   client,
		posts:    db.Collection("posts"),
		comments: db.Collection("comments"),
		likes:    db.Collection("likes"),
	}
}

// Create inserts a new post with zeroed counters.
func (r *MongoPostRepository) Create(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	_, err := r.posts.InsertOne(ctx, post)
	return err
}

// GetByID retrieves a post by ID.
func (r *MongoPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID format: %w", err)
	}

	var post models.Post
	err = r.posts.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List retrieves posts newest-first with pagination.
func (r *MongoPostRepository) List(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	return r.find(ctx, bson.M{}, skip, limit)
}

// ListByUser retrieves one author's posts newest-first.
func (r *MongoPostRepository) ListByUser(ctx context.Context, userID string, skip, limit int64) ([]models.Post, error) {
	return r.find(ctx, bson.M{"user_id": userID}, skip, limit)
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Post, error) {
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.posts.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Update applies a partial update and bumps updated_at.
func (r *MongoPostRepository) Update(ctx context.Context, id string, updates bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}

	updates["updated_at"] = time.Now()
	res, err := r.posts.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": updates})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// DeleteCascade removes a post together with its comments and likes in a
// single all-or-nothing transaction.
func (r *MongoPostRepository) DeleteCascade(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}

	return store.WithTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		res, err := r.posts.DeleteOne(sc, bson.M{"_id": objID})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return errs.ErrNotFound
		}
		if _, err := r.comments.DeleteMany(sc, bson.M{"post_id": id}); err != nil {
			return err
		}
		if _, err := r.likes.DeleteMany(sc, bson.M{"post_id": id}); err != nil {
			return err
		}
		return nil
	})
}

// AdjustLikesCount shifts the denormalized like counter. The counter is a
// display-only cache; the likes collection stays authoritative.
func (r *MongoPostRepository) AdjustLikesCount(ctx context.Context, id string, delta int) error {
	return r.adjustCounter(ctx, id, "likes_count", delta)
}

// AdjustCommentsCount shifts the denormalized comment counter.
func (r *MongoPostRepository) AdjustCommentsCount(ctx context.Context, id string, delta int) error {
	return r.adjustCounter(ctx, id, "comments_count", delta)
}

func (r *MongoPostRepository) adjustCounter(ctx context.Context, id, field string, delta int) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}
	_, err = r.posts.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{field: delta}})
	return err
}
