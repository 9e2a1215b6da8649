package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func TestReplyTreeOrphansAndCycles(t *testing.T) {
	replies := []Reply{
		{ID: 1, Body: "root"},
		{ID: 2, Body: "child", ParentID: ptr(1)},
		{ID: 3, Body: "orphan", ParentID: ptr(99)},
		{ID: 4, Body: "self", ParentID: ptr(4)},
		{ID: 5, Body: "loop-a", ParentID: ptr(6)},
		{ID: 6, Body: "loop-b", ParentID: ptr(5)},
		{ID: 7, Body: "under-loop", ParentID: ptr(5)},
	}
	tree := NewReplyTree(replies)

	roots := tree.Roots()
	ids := make([]int64, len(roots))
	for i, r := range roots {
		ids[i] = r.ID
	}
	assert.Equal(t, []int64{1, 3, 4, 5, 6}, ids)
	assert.Empty(t, tree.Children(2))
	assert.Empty(t, tree.Children(6))

	children := tree.Children(5)
	require.Len(t, children, 1)
	assert.Equal(t, int64(7), children[0].ID)

	_, ok := tree.Parent(3)
	assert.False(t, ok)
	_, ok = tree.Parent(4)
	assert.False(t, ok)
	_, ok = tree.Parent(5)
	assert.False(t, ok)
	p, ok := tree.Parent(7)
	require.True(t, ok)
	assert.Equal(t, int64(5), p.ID)

	assert.Equal(t, 1, tree.Depth(2))
	assert.Equal(t, 0, tree.Depth(4))
	assert.Equal(t, 0, tree.Depth(5))
	assert.Equal(t, 1, tree.Depth(7))

	_, ok = tree.Get(42)
	assert.False(t, ok)
}

func TestReplyTreeReachesEveryReply(t *testing.T) {
	tree := NewReplyTree([]Reply{
		{ID: 1, ParentID: ptr(3)},
		{ID: 2, ParentID: ptr(1)},
		{ID: 3, ParentID: ptr(2)},
		{ID: 4, ParentID: ptr(2)},
		{ID: 5},
	})

	var walk func([]Reply)
	seen := map[int64]int{}
	walk = func(level []Reply) {
		for _, r := range level {
			seen[r.ID]++
			walk(tree.Children(r.ID))
		}
	}
	walk(tree.Roots())

	assert.Equal(t, map[int64]int{1: 1, 2: 1, 3: 1, 4: 1, 5: 1}, seen)
}
