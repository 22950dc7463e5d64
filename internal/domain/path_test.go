package domain

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChildPath_RootAndNested(t *testing.T) {
	root := ChildPath("", 7)
	assert.Equal(t, "0000000007", root)

	child := ChildPath(root, 12)
	assert.Equal(t, "0000000007.0000000012", child)
	assert.True(t, IsAncestorPath(root, child))
	assert.False(t, IsAncestorPath(child, root))
}

func TestPathDepth(t *testing.T) {
	assert.Equal(t, 0, PathDepth(PathSegment(1)))
	assert.Equal(t, 1, PathDepth(ChildPath(PathSegment(1), 2)))
	assert.Equal(t, 2, PathDepth(ChildPath(ChildPath(PathSegment(1), 2), 30)))
}

// Plain string comparison on raw decimal ids breaks once ids cross a digit
// boundary ("10" < "9"). The zero-padded encoding must keep lexicographic
// order equal to numeric order.
func TestPathSegment_LexicographicOrderMatchesNumeric(t *testing.T) {
	ids := []uint{1, 2, 9, 10, 11, 99, 100, 101, 1000}
	segments := make([]string, len(ids))
	for i, id := range ids {
		segments[i] = PathSegment(id)
	}

	require.True(t, sort.SliceIsSorted(ids, func(i, j int) bool { return ids[i] < ids[j] }))
	assert.True(t, sort.StringsAreSorted(segments))
}

func TestChildPath_SiblingOrderAcrossDigitWidths(t *testing.T) {
	parent := PathSegment(3)
	older := ChildPath(parent, 9)
	younger := ChildPath(parent, 10)
	assert.Less(t, older, younger)
}
