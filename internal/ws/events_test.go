package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewPayloadKey(t *testing.T) {
	tests := []struct {
		name    string
		payload ViewPayload
		want    string
	}{
		{"feed", ViewPayload{View: ViewFeed}, "feed"},
		{"notifications", ViewPayload{View: ViewNotifications}, "notifications"},
		{"thread is keyed per friend", ViewPayload{View: ViewThread, FriendID: "uid-42"}, "thread:uid-42"},
		{"comments are keyed per post", ViewPayload{View: ViewComments, PostID: "p-7"}, "comments:p-7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.payload.Key())
		})
	}
}

func TestViewPayloadKeyDistinctThreads(t *testing.T) {
	a := ViewPayload{View: ViewThread, FriendID: "alice"}
	b := ViewPayload{View: ViewThread, FriendID: "bob"}
	assert.NotEqual(t, a.Key(), b.Key(), "threads with different friends must not share a subscription slot")
}

func TestNewEvent(t *testing.T) {
	evt, err := NewEvent(EventTypeViewSnapshot, SnapshotPayload{View: "feed", Items: []string{"a"}})
	require.NoError(t, err)

	assert.Equal(t, EventTypeViewSnapshot, evt.Type)
	assert.NotZero(t, evt.Timestamp)

	var p SnapshotPayload
	require.NoError(t, json.Unmarshal(evt.Payload, &p))
	assert.Equal(t, "feed", p.View)
}

func TestEventRoundTrip(t *testing.T) {
	evt, err := NewEvent(EventTypeError, ErrorPayload{Code: "UNKNOWN_VIEW", Message: "unknown view: nope"})
	require.NoError(t, err)

	data, err := json.Marshal(evt)
	require.NoError(t, err)

	var decoded Event
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, EventTypeError, decoded.Type)

	var p ErrorPayload
	require.NoError(t, json.Unmarshal(decoded.Payload, &p))
	assert.Equal(t, "UNKNOWN_VIEW", p.Code)
}
