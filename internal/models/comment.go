package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment on a post. Comments are immutable once
// created and are removed only by the parent post's delete cascade.
type Comment struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PostID    string             `json:"post_id" bson:"post_id"`
	UserID    string             `json:"user_id" bson:"user_id"`
	Content   string             `json:"content" bson:"content"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// EnrichedComment is a comment with its author profile resolved.
type EnrichedComment struct {
	Comment
	Author ProfileCompact `json:"author"`
}

// CreateCommentRequest defines the request body for creating a new comment.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
