package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendshipStatus is the state of a friend request.
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
)

// Friendship represents a friend request between two users. Rejecting a
// pending request deletes the document, so "no active friendship" and
// "rejected" are indistinguishable by design.
type Friendship struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	SenderID   string             `json:"sender_id" bson:"sender_id"`
	ReceiverID string             `json:"receiver_id" bson:"receiver_id"`
	Status     FriendshipStatus   `json:"status" bson:"status"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

// OtherUser returns the participant that is not userID.
func (f *Friendship) OtherUser(userID string) string {
	if f.SenderID == userID {
		return f.ReceiverID
	}
	return f.SenderID
}

// EnrichedFriend is an accepted friendship with the other participant's
// profile resolved.
type EnrichedFriend struct {
	Friendship
	Friend ProfileCompact `json:"friend"`
}

// CreateFriendRequest defines the request body for sending a friend request.
type CreateFriendRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
}
