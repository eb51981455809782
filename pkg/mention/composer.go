package mention

import (
	"sync"

	"github.com/YagorVitor/CodeReview/pkg/logger"
)

// Key is a navigation key understood by an open suggestion list.
type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyEnter
	KeyEscape
)

// State is a snapshot of a composer.
type State struct {
	Text        string
	Cursor      int
	Query       string
	Suggestions []Suggestion
	Highlighted int
	Open        bool
}

// Composer tracks one text field (a comment, a reply or a bio) and its
// suggestion list. The list is open only while suggestions are present and
// the text right before the cursor is a partial mention.
type Composer struct {
	lookup *Lookup

	mu          sync.Mutex
	onChange    func(State)
	text        string
	cursor      int
	anchor      int
	start       int
	query       string
	active      bool
	suggestions []Suggestion
	highlighted int
}

// NewComposer creates a composer that fetches suggestions through lookup.
func NewComposer(lookup *Lookup) *Composer {
	return &Composer{lookup: lookup}
}

// OnChange registers fn to be called after every state change, including
// asynchronous suggestion arrivals.
func (c *Composer) OnChange(fn func(State)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// SetText records an edit and runs trigger detection on the text before
// cursor.
func (c *Composer) SetText(text string, cursor int) {
	cursor = clamp(cursor, len([]rune(text)))
	query, ok := LiveQuery(text, cursor)

	c.mu.Lock()
	c.text = text
	c.cursor = cursor
	if !ok {
		c.active = false
		c.clearLocked()
		c.mu.Unlock()

		c.lookup.Cancel()
		c.notify()
		return
	}
	// suggestions belong to one token and one query; anything else waits
	// for its own lookup
	start := cursor - len([]rune(query)) - 1
	if !c.active || start != c.start || query != c.query {
		c.suggestions = nil
		c.highlighted = 0
	}
	c.active = true
	c.anchor = cursor
	c.start = start
	c.query = query
	c.mu.Unlock()

	c.lookup.Request(query, c.apply)
	c.notify()
}

func (c *Composer) apply(r Result) {
	c.mu.Lock()
	if !c.active || r.Query != c.query || r.Seq != c.lookup.Latest() {
		c.mu.Unlock()
		return
	}
	if r.Err != nil {
		logger.Warn("Mention suggestions unavailable", "query", r.Query, "error", r.Err)
		c.suggestions = nil
		c.highlighted = 0
	} else {
		c.suggestions = r.Suggestions
		c.highlighted = 0
	}
	c.mu.Unlock()
	c.notify()
}

// Select completes the partial mention with username at the cursor position
// seen when the mention was detected, then closes the list.
func (c *Composer) Select(username string) (Insertion, bool) {
	c.mu.Lock()
	if !c.active {
		ins := Insertion{Text: c.text, Cursor: c.cursor}
		c.mu.Unlock()
		return ins, false
	}
	ins, ok := Insert(c.text, c.anchor, username)
	c.text = ins.Text
	c.cursor = ins.Cursor
	c.active = false
	c.clearLocked()
	c.mu.Unlock()

	c.lookup.Cancel()
	c.notify()
	return ins, ok
}

// HandleKey applies a navigation key to an open list. It reports whether the
// key was consumed; Enter also returns the resulting insertion.
func (c *Composer) HandleKey(k Key) (bool, *Insertion) {
	c.mu.Lock()
	n := len(c.suggestions)
	if !c.active || n == 0 {
		c.mu.Unlock()
		return false, nil
	}

	switch k {
	case KeyUp:
		c.highlighted = (c.highlighted - 1 + n) % n
	case KeyDown:
		c.highlighted = (c.highlighted + 1) % n
	case KeyEscape:
		c.active = false
		c.clearLocked()
		c.mu.Unlock()
		c.lookup.Cancel()
		c.notify()
		return true, nil
	case KeyEnter:
		username := c.suggestions[c.highlighted].Username
		c.mu.Unlock()
		ins, _ := c.Select(username)
		return true, &ins
	default:
		c.mu.Unlock()
		return false, nil
	}
	c.mu.Unlock()
	c.notify()
	return true, nil
}

// Reset replaces the text, closes the list and places the cursor at the end.
func (c *Composer) Reset(text string) {
	c.mu.Lock()
	c.text = text
	c.cursor = len([]rune(text))
	c.active = false
	c.clearLocked()
	c.mu.Unlock()

	c.lookup.Cancel()
	c.notify()
}

// State returns a snapshot.
func (c *Composer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Text returns the current raw text.
func (c *Composer) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

func (c *Composer) stateLocked() State {
	s := State{
		Text:        c.text,
		Cursor:      c.cursor,
		Highlighted: c.highlighted,
		Open:        c.active && len(c.suggestions) > 0,
	}
	if c.active {
		s.Query = c.query
	}
	if len(c.suggestions) > 0 {
		s.Suggestions = append([]Suggestion(nil), c.suggestions...)
	}
	return s
}

func (c *Composer) clearLocked() {
	c.suggestions = nil
	c.highlighted = 0
	c.query = ""
}

func (c *Composer) notify() {
	c.mu.Lock()
	fn := c.onChange
	s := c.stateLocked()
	c.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}
