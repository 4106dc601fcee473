package ws

import (
	"encoding/json"
	"time"
)

// Event types - Client → Server
const (
	EventTypeViewSubscribe   = "view.subscribe"
	EventTypeViewUnsubscribe = "view.unsubscribe"
	EventTypeUsernameCheck   = "username.check"
	EventTypePing            = "ping"
)

// Event types - Server → Client
const (
	EventTypeViewSnapshot   = "view.snapshot"
	EventTypeUsernameStatus = "username.status"
	EventTypePong           = "pong"
	EventTypeError          = "error"
)

// View names a client can subscribe to. Thread and comments views carry a
// target id in the payload.
const (
	ViewFeed           = "feed"
	ViewNotifications  = "notifications"
	ViewStories        = "stories"
	ViewFriends        = "friends"
	ViewFriendRequests = "friend_requests"
	ViewThread         = "thread"
	ViewComments       = "comments"
)

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

// --- Client → Server payloads ---

// ViewPayload selects the view for subscribe/unsubscribe events.
type ViewPayload struct {
	View     string `json:"view"`
	FriendID string `json:"friend_id,omitempty"` // thread views
	PostID   string `json:"post_id,omitempty"`   // comment views
}

// Key returns the per-client registry key for this view selection, so two
// thread subscriptions to different friends coexist.
func (p ViewPayload) Key() string {
	switch p.View {
	case ViewThread:
		return ViewThread + ":" + p.FriendID
	case ViewComments:
		return ViewComments + ":" + p.PostID
	default:
		return p.View
	}
}

// UsernameCheckPayload carries one keystroke's worth of the username field.
type UsernameCheckPayload struct {
	Value string `json:"value"`
}

// --- Server → Client payloads ---

// SnapshotPayload is a full view replacement. Items is the entire current
// result set; the client renders it wholesale, never merges.
type SnapshotPayload struct {
	View  string `json:"view"`
	Items any    `json:"items"`
}

// UsernameStatusPayload reports a username checker state transition.
type UsernameStatusPayload struct {
	Value  string `json:"value"`
	Status string `json:"status"`
}

// ErrorPayload reports a protocol-level failure to the client.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}
