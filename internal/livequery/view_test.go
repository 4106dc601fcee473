package livequery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewReplaceIsFullReplacement(t *testing.T) {
	v := NewView[string](nil)

	v.Replace([]string{"a", "b", "c"})
	v.Replace([]string{"b"})

	// Nothing from the first snapshot may survive the second.
	require.Equal(t, []string{"b"}, v.Current())
	assert.EqualValues(t, 2, v.Version())
}

func TestViewReplaceWithEmptySnapshot(t *testing.T) {
	v := NewView[int](nil)
	v.Replace([]int{1, 2, 3})
	v.Replace(nil)
	require.Empty(t, v.Current())
}

func TestViewPublishesCopies(t *testing.T) {
	var published []string
	v := NewView[string](func(s []string) { published = s })

	src := []string{"x", "y"}
	v.Replace(src)
	src[0] = "mutated"

	require.Equal(t, []string{"x", "y"}, published)
	require.Equal(t, []string{"x", "y"}, v.Current())

	// Mutating what Current returned must not leak into the view.
	cur := v.Current()
	cur[0] = "mutated"
	require.Equal(t, []string{"x", "y"}, v.Current())
}

func TestViewVersionStartsAtZero(t *testing.T) {
	v := NewView[int](nil)
	assert.Zero(t, v.Version())
	assert.Empty(t, v.Current())
}
