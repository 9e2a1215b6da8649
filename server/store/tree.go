package store

// ReplyTree indexes the replies of one question by id. Navigation is a map
// lookup on the parent id; replies never point at each other directly.
//
// A reply is treated as a root when its parent is missing from the set or
// when its parent chain loops back to it, so every reply is reachable from
// exactly one root.
type ReplyTree struct {
	byID     map[int64]Reply
	children map[int64][]int64
	roots    []int64
	isRoot   map[int64]bool
}

// NewReplyTree keeps the input order for roots and for each child list.
func NewReplyTree(replies []Reply) *ReplyTree {
	t := &ReplyTree{
		byID:     make(map[int64]Reply, len(replies)),
		children: make(map[int64][]int64),
		isRoot:   make(map[int64]bool),
	}
	for _, r := range replies {
		t.byID[r.ID] = r
	}
	for _, r := range replies {
		if t.rooted(r) {
			t.isRoot[r.ID] = true
			t.roots = append(t.roots, r.ID)
			continue
		}
		t.children[*r.ParentID] = append(t.children[*r.ParentID], r.ID)
	}
	return t
}

// rooted walks the stored parent ids of r until it leaves the set, revisits
// r, or enters a loop not containing r.
func (t *ReplyTree) rooted(r Reply) bool {
	seen := map[int64]bool{r.ID: true}
	cur := r
	for {
		if cur.ParentID == nil {
			return true
		}
		p, ok := t.byID[*cur.ParentID]
		if !ok {
			return cur.ID == r.ID
		}
		if p.ID == r.ID {
			return true
		}
		if seen[p.ID] {
			return false
		}
		seen[p.ID] = true
		cur = p
	}
}

func (t *ReplyTree) Len() int {
	return len(t.byID)
}

func (t *ReplyTree) Get(id int64) (Reply, bool) {
	r, ok := t.byID[id]
	return r, ok
}

func (t *ReplyTree) Roots() []Reply {
	return t.collect(t.roots)
}

func (t *ReplyTree) Children(id int64) []Reply {
	return t.collect(t.children[id])
}

// Parent reports false for roots, including replies whose stored parent
// is themselves or part of a loop back to them.
func (t *ReplyTree) Parent(id int64) (Reply, bool) {
	r, ok := t.byID[id]
	if !ok || t.isRoot[id] {
		return Reply{}, false
	}
	return t.byID[*r.ParentID], true
}

// Depth is zero for roots and for ids outside the tree.
func (t *ReplyTree) Depth(id int64) int {
	depth := 0
	for {
		p, ok := t.Parent(id)
		if !ok {
			return depth
		}
		depth++
		id = p.ID
	}
}

func (t *ReplyTree) collect(ids []int64) []Reply {
	out := make([]Reply, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.byID[id])
	}
	return out
}
