// Package thread presents a post's comments as a depth-aware tree and mediates
// comment, reply and delete actions against the backend.
package thread

import "github.com/YagorVitor/CodeReview/pkg/model"

// Normalize returns comments as a forest. Nested input (top-level comments
// without a parent, replies carried in Replies) is returned as is. A flat list
// where top-level items carry ParentID is rebuilt by ParentID.
func Normalize(comments []model.Comment) []model.Comment {
	if !isFlat(comments) {
		return comments
	}
	return BuildForest(flatten(comments))
}

func isFlat(comments []model.Comment) bool {
	for _, c := range comments {
		if c.ParentID != nil {
			return true
		}
	}
	return false
}

func flatten(comments []model.Comment) []model.Comment {
	var out []model.Comment
	for _, c := range comments {
		replies := c.Replies
		c.Replies = nil
		out = append(out, c)
		out = append(out, flatten(replies)...)
	}
	return out
}

// BuildForest groups comments under their parents. Siblings keep arrival
// order. Comments whose parent is missing, and comments caught in a parent
// cycle, become top-level. Later duplicates of an id are dropped.
func BuildForest(flat []model.Comment) []model.Comment {
	index := make(map[int64]int, len(flat))
	nodes := make([]model.Comment, 0, len(flat))
	for _, c := range flat {
		if _, dup := index[c.ID]; dup {
			continue
		}
		c.Replies = nil
		index[c.ID] = len(nodes)
		nodes = append(nodes, c)
	}

	parentOf := func(i int) (int, bool) {
		p := nodes[i].ParentID
		if p == nil {
			return 0, false
		}
		j, ok := index[*p]
		return j, ok
	}

	children := make(map[int][]int, len(nodes))
	var roots []int
	for i := range nodes {
		p, ok := parentOf(i)
		if !ok || inCycle(i, parentOf) {
			roots = append(roots, i)
			continue
		}
		children[p] = append(children[p], i)
	}

	var build func(i int) model.Comment
	build = func(i int) model.Comment {
		c := nodes[i]
		for _, child := range children[i] {
			c.Replies = append(c.Replies, build(child))
		}
		return c
	}

	forest := make([]model.Comment, 0, len(roots))
	for _, r := range roots {
		forest = append(forest, build(r))
	}
	return forest
}

// inCycle reports whether following parents from i leads back to i.
func inCycle(i int, parentOf func(int) (int, bool)) bool {
	seen := map[int]bool{}
	cur := i
	for {
		p, ok := parentOf(cur)
		if !ok {
			return false
		}
		if p == i {
			return true
		}
		if seen[p] {
			// a cycle further up that does not include i
			return false
		}
		seen[p] = true
		cur = p
	}
}
