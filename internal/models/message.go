package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message represents a direct message. It is created by the sender and
// mutated only by the receiver, who flips the read flag.
type Message struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	SenderID   string             `json:"sender_id" bson:"sender_id"`
	ReceiverID string             `json:"receiver_id" bson:"receiver_id"`
	Content    string             `json:"content" bson:"content"`
	Read       bool               `json:"read" bson:"read"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// EnrichedMessage is a message with its sender profile resolved.
type EnrichedMessage struct {
	Message
	Sender ProfileCompact `json:"sender"`
}

// SendMessageRequest defines the request body for sending a message.
type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
	Content    string `json:"content" validate:"required,min=1,max=2000"`
}
