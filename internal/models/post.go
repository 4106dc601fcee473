package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a feed post document.
type Post struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        string             `json:"user_id" bson:"user_id"` // author's auth UID
	Content       string             `json:"content" bson:"content"`
	ImageURL      string             `json:"image_url,omitempty" bson:"image_url,omitempty"`
	LikesCount    int                `json:"likes_count" bson:"likes_count"`
	CommentsCount int                `json:"comments_count" bson:"comments_count"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// EnrichedPost is a post with its author profile resolved client-side.
type EnrichedPost struct {
	Post
	Author ProfileCompact `json:"author"`
}

// CreatePostRequest defines the request body for creating a new post.
type CreatePostRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=1000"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// UpdatePostRequest defines the request body for updating an existing post.
type UpdatePostRequest struct {
	Content  string `json:"content,omitempty" validate:"omitempty,min=1,max=1000"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
}
