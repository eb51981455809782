package mention

import (
	"context"
	"sync"
	"time"

	"github.com/YagorVitor/CodeReview/pkg/logger"
	"github.com/YagorVitor/CodeReview/pkg/model"
)

// DefaultSuggestionLimit caps the number of suggestions shown for a query.
const DefaultSuggestionLimit = 10

// Suggestion is a user offered for completion.
type Suggestion = model.UserSummary

// Searcher finds users matching a partial username or display name.
type Searcher interface {
	SearchUsers(ctx context.Context, query string, limit int) ([]Suggestion, error)
}

// Result is the outcome of one lookup.
type Result struct {
	Seq         uint64
	Query       string
	Suggestions []Suggestion
	Err         error
}

// Lookup issues debounced suggestion searches. The most recently requested
// lookup wins: earlier in-flight searches are cancelled and their results are
// never delivered.
type Lookup struct {
	searcher  Searcher
	limit     int
	debouncer *Debouncer
	ctx       context.Context
	stop      context.CancelFunc

	mu       sync.Mutex
	seq      uint64
	inflight context.CancelFunc
}

// NewLookup creates a lookup over searcher.
func NewLookup(searcher Searcher, debounce time.Duration, limit int) *Lookup {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	ctx, stop := context.WithCancel(context.Background())
	return &Lookup{
		searcher:  searcher,
		limit:     limit,
		debouncer: NewDebouncer(debounce),
		ctx:       ctx,
		stop:      stop,
	}
}

// Request schedules a search for query and returns its sequence number.
// deliver is called at most once, from another goroutine, and only if no
// newer request was made in the meantime. An empty query never reaches the
// searcher; it is delivered immediately with no suggestions.
func (l *Lookup) Request(query string, deliver func(Result)) uint64 {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.abortLocked()
	l.mu.Unlock()

	if query == "" {
		l.debouncer.Cancel()
		deliver(Result{Seq: seq, Query: query})
		return seq
	}

	l.debouncer.Trigger(func() {
		l.run(seq, query, deliver)
	})
	return seq
}

func (l *Lookup) run(seq uint64, query string, deliver func(Result)) {
	l.mu.Lock()
	if seq != l.seq {
		l.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(l.ctx)
	l.inflight = cancel
	l.mu.Unlock()
	defer cancel()

	logger.Debug("Looking up mention suggestions", "query", query, "seq", seq)
	suggestions, err := l.searcher.SearchUsers(ctx, query, l.limit)
	if len(suggestions) > l.limit {
		suggestions = suggestions[:l.limit]
	}

	if l.Latest() != seq {
		logger.Debug("Discarding stale suggestions", "query", query, "seq", seq)
		return
	}
	deliver(Result{Seq: seq, Query: query, Suggestions: suggestions, Err: err})
}

// Cancel drops the pending and in-flight lookups.
func (l *Lookup) Cancel() {
	l.mu.Lock()
	l.seq++
	l.abortLocked()
	l.mu.Unlock()
	l.debouncer.Cancel()
}

// Close cancels everything and stops accepting work.
func (l *Lookup) Close() {
	l.Cancel()
	l.stop()
}

// Latest returns the sequence number of the most recent request.
func (l *Lookup) Latest() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq
}

func (l *Lookup) abortLocked() {
	if l.inflight != nil {
		l.inflight()
		l.inflight = nil
	}
}
