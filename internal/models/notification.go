package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType is the closed set of notification kinds. Handling sites
// switch exhaustively over these so a new kind is a compile-time-visible
// change, not a stray string.
type NotificationType string

const (
	NotificationFriendRequest  NotificationType = "friend_request"
	NotificationFriendAccepted NotificationType = "friend_accepted"
	NotificationFriendRejected NotificationType = "friend_rejected"
	NotificationMessage        NotificationType = "message"
	NotificationLike           NotificationType = "like"
	NotificationComment        NotificationType = "comment"
)

// ParseNotificationType validates a raw type string against the closed set.
func ParseNotificationType(s string) (NotificationType, error) {
	switch t := NotificationType(s); t {
	case NotificationFriendRequest, NotificationFriendAccepted,
		NotificationFriendRejected, NotificationMessage,
		NotificationLike, NotificationComment:
		return t, nil
	default:
		return "", fmt.Errorf("unknown notification type %q", s)
	}
}

// Notification represents a user notification. Deleting one sets the
// deleted_at tombstone instead of removing the document, so listener
// queries exclude it without needing delete-event propagation.
type Notification struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID      string             `json:"user_id" bson:"user_id"` // owner
	Type        NotificationType   `json:"type" bson:"type"`
	Content     string             `json:"content" bson:"content"`
	ReferenceID string             `json:"reference_id,omitempty" bson:"reference_id,omitempty"`
	Read        bool               `json:"read" bson:"read"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	DeletedAt   *time.Time         `json:"deleted_at,omitempty" bson:"deleted_at,omitempty"`
}
