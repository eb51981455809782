package thread

import (
	"sync"

	"github.com/YagorVitor/CodeReview/pkg/mention"
	"github.com/YagorVitor/CodeReview/pkg/model"
)

// DefaultMaxDepth is the depth at which visual indentation stops growing.
const DefaultMaxDepth = 4

// Line is one rendered comment of a thread.
type Line struct {
	Comment  model.Comment
	Depth    int
	Indent   int
	Segments []mention.Segment
	// HiddenReplies counts the replies under a collapsed comment.
	HiddenReplies int
}

// Collapsed reports whether the comment's subtree is hidden.
func (l Line) Collapsed() bool {
	return l.HiddenReplies > 0
}

// View turns a comment forest into display lines. Collapse state survives
// refreshes because it is keyed by comment id.
type View struct {
	maxDepth int

	mu        sync.RWMutex
	collapsed map[int64]bool
}

// NewView creates a view. A non-positive maxDepth uses DefaultMaxDepth.
func NewView(maxDepth int) *View {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &View{maxDepth: maxDepth, collapsed: map[int64]bool{}}
}

// MaxDepth returns the indentation cap.
func (v *View) MaxDepth() int {
	return v.maxDepth
}

func (v *View) Collapse(id int64) {
	v.mu.Lock()
	v.collapsed[id] = true
	v.mu.Unlock()
}

func (v *View) Expand(id int64) {
	v.mu.Lock()
	delete(v.collapsed, id)
	v.mu.Unlock()
}

// Toggle flips the collapse state of id and returns the new state.
func (v *View) Toggle(id int64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.collapsed[id] {
		delete(v.collapsed, id)
		return false
	}
	v.collapsed[id] = true
	return true
}

func (v *View) IsCollapsed(id int64) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.collapsed[id]
}

// Lines walks the forest depth-first. Every comment is emitted regardless of
// depth; only Indent saturates at the cap.
func (v *View) Lines(comments []model.Comment) []Line {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var lines []Line
	var walk func(list []model.Comment, depth int)
	walk = func(list []model.Comment, depth int) {
		for _, c := range list {
			replies := c.Replies
			c.Replies = nil
			line := Line{
				Comment:  c,
				Depth:    depth,
				Indent:   min(depth, v.maxDepth),
				Segments: mention.Segments(c.Content),
			}
			if v.collapsed[c.ID] && len(replies) > 0 {
				line.HiddenReplies = model.CountComments(replies)
				lines = append(lines, line)
				continue
			}
			lines = append(lines, line)
			walk(replies, depth+1)
		}
	}
	walk(Normalize(comments), 0)
	return lines
}
