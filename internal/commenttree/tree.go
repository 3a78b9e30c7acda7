// ABOUTME: Groups a flat comment list into top-level comments and their replies
// ABOUTME: Deeper replies are flattened onto their top-level ancestor; unreachable ones are orphans

package commenttree

import "github.com/chikadol/rev-frontend-sub000/internal/client"

// Tree is a two-level view of a thread's comments
type Tree struct {
	topLevel []client.Comment
	replies  map[string][]client.Comment
	orphans  []client.Comment
	byID     map[string]client.Comment
}

// Group partitions comments into top-level comments and reply buckets,
// preserving input order within every group. A reply to a reply lands in
// the bucket of its top-level ancestor. Replies whose ancestor chain never
// reaches a top-level comment in the list are kept as orphans.
func Group(comments []client.Comment) *Tree {
	t := &Tree{
		replies: make(map[string][]client.Comment),
		byID:    make(map[string]client.Comment, len(comments)),
	}
	for _, c := range comments {
		t.byID[c.ID] = c
	}

	for _, c := range comments {
		if !c.IsReply() {
			t.topLevel = append(t.topLevel, c)
			continue
		}
		root, ok := t.rootOf(c)
		if !ok {
			t.orphans = append(t.orphans, c)
			continue
		}
		t.replies[root] = append(t.replies[root], c)
	}
	return t
}

// rootOf walks parent links up to a top-level comment. Cycles and missing
// parents report false.
func (t *Tree) rootOf(c client.Comment) (string, bool) {
	seen := map[string]bool{c.ID: true}
	cur := c
	for cur.IsReply() {
		parent, ok := t.byID[*cur.ParentID]
		if !ok || seen[parent.ID] {
			return "", false
		}
		seen[parent.ID] = true
		cur = parent
	}
	return cur.ID, true
}

// TopLevel returns comments without a parent, in input order
func (t *Tree) TopLevel() []client.Comment {
	return t.topLevel
}

// RepliesOf returns the replies grouped under a top-level comment. The
// result is never nil.
func (t *Tree) RepliesOf(id string) []client.Comment {
	if r, ok := t.replies[id]; ok {
		return r
	}
	return []client.Comment{}
}

// Orphans returns replies that could not be placed under any top-level comment
func (t *Tree) Orphans() []client.Comment {
	return t.orphans
}

// InReplyTo returns the direct parent of a reply that was flattened, i.e.
// one whose parent is itself a reply. Direct replies report false.
func (t *Tree) InReplyTo(c client.Comment) (client.Comment, bool) {
	if !c.IsReply() {
		return client.Comment{}, false
	}
	parent, ok := t.byID[*c.ParentID]
	if !ok || !parent.IsReply() {
		return client.Comment{}, false
	}
	return parent, true
}

// Len returns the number of comments in the tree
func (t *Tree) Len() int {
	return len(t.byID)
}

// RemoveComment returns list without the comment with the given id
func RemoveComment(list []client.Comment, id string) []client.Comment {
	out := make([]client.Comment, 0, len(list))
	for _, c := range list {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}
