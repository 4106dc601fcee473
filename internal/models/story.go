package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StoryTTL is how long a story stays in the active set. The expiry is
// computed once at creation and never recalculated.
const StoryTTL = 24 * time.Hour

// Story represents a user's story document.
type Story struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID     string             `json:"user_id" bson:"user_id"`
	Images     []StoryImage       `json:"images" bson:"images"`
	ViewsCount int                `json:"views_count" bson:"views_count"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	ExpiresAt  time.Time          `json:"expires_at" bson:"expires_at"`
}

// StoryImage is a single image in a story with its metadata.
type StoryImage struct {
	URL     string    `json:"url" bson:"url"`
	Caption string    `json:"caption,omitempty" bson:"caption,omitempty"`
	AddedAt time.Time `json:"added_at" bson:"added_at"`
}

// Active reports whether the story belongs in the active set at now.
func (s *Story) Active(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}

// EnrichedStory is a story with its author profile resolved.
type EnrichedStory struct {
	Story
	Author ProfileCompact `json:"author"`
}

// CreateStoryRequest defines the request body for creating a story.
type CreateStoryRequest struct {
	Images []CreateStoryImage `json:"images" validate:"required,min=1,max=10,dive"`
}

// CreateStoryImage is one image reference in a story creation request.
type CreateStoryImage struct {
	URL     string `json:"url" validate:"required,url"`
	Caption string `json:"caption,omitempty" validate:"omitempty,max=200"`
}
