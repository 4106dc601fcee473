package blob

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectPathNamespacesByKindAndOwner(t *testing.T) {
	p := ObjectPath("avatars", "u1", "me.png")
	require.True(t, strings.HasPrefix(p, "avatars/u1/"))
	assert.True(t, strings.HasSuffix(p, ".png"))
	assert.NotEqual(t, p, ObjectPath("avatars", "u1", "me.png"), "concurrent uploads never collide")
}

func TestPathFromURLRoundTripsUploadURLs(t *testing.T) {
	s := NewStore(nil, "media-bucket")

	p, ok := s.PathFromURL("https://storage.googleapis.com/media-bucket/avatars/u1/123-abcd.png")
	require.True(t, ok)
	assert.Equal(t, "avatars/u1/123-abcd.png", p)
}

func TestPathFromURLRejectsForeignURLs(t *testing.T) {
	s := NewStore(nil, "media-bucket")

	for _, url := range []string{
		"https://storage.googleapis.com/other-bucket/avatars/u1/123.png",
		"https://example.com/media-bucket/avatars/u1/123.png",
		"https://storage.googleapis.com/media-bucket/",
		"",
	} {
		_, ok := s.PathFromURL(url)
		assert.False(t, ok, "url %q must not resolve to an object path", url)
	}
}
