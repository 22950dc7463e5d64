package domain

import (
	"fmt"
	"strings"
)

// PathSegmentWidth is the fixed decimal width of one id segment inside a
// comment path. Segments are zero-padded so that lexicographic comparison of
// stored paths equals numeric pre-order traversal of the tree. This encoding
// is a correctness contract shared by every storage backend and must not
// change once data exists.
const PathSegmentWidth = 10

// PathColumnSize is the storage width of the path column. A path at depth d
// holds d+1 segments of PathSegmentWidth digits plus d separators, so
// MaxCommentDepth is the deepest reply that still fits the column.
const (
	PathColumnSize  = 512
	MaxCommentDepth = (PathColumnSize+1)/(PathSegmentWidth+1) - 1
)

// PathSegment renders a comment id as one fixed-width path segment.
func PathSegment(id uint) string {
	return fmt.Sprintf("%0*d", PathSegmentWidth, id)
}

// ChildPath builds the materialized path for a comment given its parent's
// path. Root comments pass an empty parent path.
func ChildPath(parentPath string, id uint) string {
	if parentPath == "" {
		return PathSegment(id)
	}
	return parentPath + "." + PathSegment(id)
}

// PathDepth returns the depth encoded in a path: segments minus one.
func PathDepth(path string) int {
	if path == "" {
		return 0
	}
	return strings.Count(path, ".")
}

// IsAncestorPath reports whether ancestor's path is a proper dot-delimited
// prefix of descendant's path.
func IsAncestorPath(ancestor, descendant string) bool {
	return len(descendant) > len(ancestor) && strings.HasPrefix(descendant, ancestor+".")
}
