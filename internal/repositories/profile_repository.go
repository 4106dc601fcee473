package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/socialchat/gateway/internal/errs"
	"github.com/socialchat/gateway/internal/models"
)

// ProfileRepository defines the interface for profile document operations.
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
	Update(ctx context.Context, id string, updates bson.M) error
	SetFCMToken(ctx context.Context, id, token string) error
	Search(ctx context.Context, prefix string, limit int64) ([]models.Profile, error)
}

// MongoProfileRepository implements ProfileRepository for MongoDB.
type MongoProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoProfileRepository creates a new MongoProfileRepository.
func NewMongoProfileRepository(db *mongo.Database) *MongoProfileRepository {
	return &MongoProfileRepository{collection: db.Collection("profiles")}
}

// Create inserts a profile document keyed by the account UID.
func (r *MongoProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, profile)
	if mongo.IsDuplicateKeyError(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetByID retrieves a profile by account UID.
func (r *MongoProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetByUsername retrieves a profile by its unique username.
func (r *MongoProfileRepository) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	var profile models.Profile
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update applies a partial update and bumps updated_at.
func (r *MongoProfileRepository) Update(ctx context.Context, id string, updates bson.M) error {
	updates["updated_at"] = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// SetFCMToken stores the push-messaging token for the account.
func (r *MongoProfileRepository) SetFCMToken(ctx context.Context, id, token string) error {
	return r.Update(ctx, id, bson.M{"fcm_token": token})
}

// usernamePrefixFilter anchors a case-insensitive prefix match. The prefix is
// caller-supplied, so regex metacharacters in it must match literally.
func usernamePrefixFilter(prefix string) bson.M {
	return bson.M{"username": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix), "$options": "i"}}
}

// Search returns profiles whose username starts with prefix.
func (r *MongoProfileRepository) Search(ctx context.Context, prefix string, limit int64) ([]models.Profile, error) {
	findOptions := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "username", Value: 1}})
	cursor, err := r.collection.Find(ctx, usernamePrefixFilter(prefix), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var profiles []models.Profile
	if err = cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}
