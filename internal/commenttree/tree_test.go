package commenttree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chikadol/rev-frontend-sub000/internal/client"
)

func ptr(s string) *string { return &s }

func ids(comments []client.Comment) []string {
	out := make([]string, 0, len(comments))
	for _, c := range comments {
		out = append(out, c.ID)
	}
	return out
}

func TestGroupTwoLevels(t *testing.T) {
	tree := Group([]client.Comment{
		{ID: "c1"},
		{ID: "c2", ParentID: ptr("c1")},
		{ID: "c3"},
	})

	assert.Equal(t, []string{"c1", "c3"}, ids(tree.TopLevel()))
	assert.Equal(t, []string{"c2"}, ids(tree.RepliesOf("c1")))
	assert.Empty(t, tree.RepliesOf("c3"))
	assert.NotNil(t, tree.RepliesOf("c3"))
	assert.Empty(t, tree.Orphans())
}

func TestGroupPreservesOrder(t *testing.T) {
	tree := Group([]client.Comment{
		{ID: "r1", ParentID: ptr("t2")},
		{ID: "t1"},
		{ID: "r2", ParentID: ptr("t1")},
		{ID: "t2"},
		{ID: "r3", ParentID: ptr("t1")},
		{ID: "r4", ParentID: ptr("t2")},
	})

	assert.Equal(t, []string{"t1", "t2"}, ids(tree.TopLevel()))
	assert.Equal(t, []string{"r2", "r3"}, ids(tree.RepliesOf("t1")))
	assert.Equal(t, []string{"r1", "r4"}, ids(tree.RepliesOf("t2")))
	assert.Equal(t, 6, tree.Len())
}

func TestGroupEmptyParentIsTopLevel(t *testing.T) {
	tree := Group([]client.Comment{{ID: "c1", ParentID: ptr("")}})

	assert.Equal(t, []string{"c1"}, ids(tree.TopLevel()))
}

func TestGroupFlattensDeepReplies(t *testing.T) {
	tree := Group([]client.Comment{
		{ID: "c1"},
		{ID: "c2", ParentID: ptr("c1")},
		{ID: "c3", ParentID: ptr("c2")},
		{ID: "c4", ParentID: ptr("c3")},
	})

	assert.Equal(t, []string{"c2", "c3", "c4"}, ids(tree.RepliesOf("c1")))

	parent, ok := tree.InReplyTo(tree.RepliesOf("c1")[1])
	require.True(t, ok)
	assert.Equal(t, "c2", parent.ID)

	_, ok = tree.InReplyTo(tree.RepliesOf("c1")[0])
	assert.False(t, ok, "direct replies are not flattened")
}

func TestGroupReportsOrphans(t *testing.T) {
	tree := Group([]client.Comment{
		{ID: "c1"},
		{ID: "lost", ParentID: ptr("gone")},
		{ID: "lost-child", ParentID: ptr("lost")},
		{ID: "a", ParentID: ptr("b")},
		{ID: "b", ParentID: ptr("a")},
	})

	assert.Equal(t, []string{"c1"}, ids(tree.TopLevel()))
	assert.Equal(t, []string{"lost", "lost-child", "a", "b"}, ids(tree.Orphans()))
	assert.Empty(t, tree.RepliesOf("c1"))
}

func TestGroupEmpty(t *testing.T) {
	tree := Group(nil)

	assert.Empty(t, tree.TopLevel())
	assert.Empty(t, tree.Orphans())
	assert.Equal(t, 0, tree.Len())
}

func TestRemoveComment(t *testing.T) {
	list := []client.Comment{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}}

	got := RemoveComment(list, "c2")

	assert.Equal(t, []string{"c1", "c3"}, ids(got))
	assert.Len(t, list, 3, "input is not modified")
	assert.Equal(t, []string{"c1", "c3"}, ids(RemoveComment(got, "missing")))
}
