package models

import "time"

// Like represents a like on a post. Its document ID is the deterministic
// composite key post:user, so two concurrent likes for the same pair
// collide on insert instead of producing two records.
type Like struct {
	ID        string    `json:"id" bson:"_id"`
	PostID    string    `json:"post_id" bson:"post_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// LikeID returns the deterministic document ID for a (post, user) pair.
func LikeID(postID, userID string) string {
	return postID + ":" + userID
}
