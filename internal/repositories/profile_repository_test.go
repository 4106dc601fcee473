package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestUsernamePrefixFilterEscapesMetacharacters(t *testing.T) {
	filter := usernamePrefixFilter("a.b+c")

	inner, ok := filter["username"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "^a\\.b\\+c", inner["$regex"])
	assert.Equal(t, "i", inner["$options"])
}

func TestUsernamePrefixFilterAnchorsPlainPrefix(t *testing.T) {
	filter := usernamePrefixFilter("alice")

	inner, ok := filter["username"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "^alice", inner["$regex"])
}
