package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoryActiveWindow(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := Story{CreatedAt: created, ExpiresAt: created.Add(StoryTTL)}

	assert.True(t, s.Active(created.Add(23*time.Hour+59*time.Minute)))
	assert.False(t, s.Active(created.Add(24*time.Hour+time.Minute)))
	assert.False(t, s.Active(created.Add(StoryTTL)), "expiry instant is already inactive")
}

func TestLikeIDIsDeterministic(t *testing.T) {
	a := LikeID("post1", "user1")
	b := LikeID("post1", "user1")
	require.Equal(t, a, b)
	require.NotEqual(t, a, LikeID("post1", "user2"))
}

func TestParseNotificationType(t *testing.T) {
	for _, s := range []string{
		"friend_request", "friend_accepted", "friend_rejected",
		"message", "like", "comment",
	} {
		got, err := ParseNotificationType(s)
		require.NoError(t, err)
		assert.EqualValues(t, s, got)
	}

	_, err := ParseNotificationType("poke")
	require.Error(t, err)
}

func TestNewProfileAppliesThemeDefaults(t *testing.T) {
	p := NewProfile("uid-1", "Alice", "alice", "alice@example.com")

	assert.Equal(t, "uid-1", p.ID)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, DefaultThemePreference, p.ThemePreference,
		"a new profile must start inside the theme's valid value set")
	assert.Equal(t, DefaultColorTheme, p.ColorTheme)
}

func TestFriendshipOtherUser(t *testing.T) {
	f := Friendship{SenderID: "a", ReceiverID: "b"}
	assert.Equal(t, "b", f.OtherUser("a"))
	assert.Equal(t, "a", f.OtherUser("b"))
}
