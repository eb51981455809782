package thread

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/YagorVitor/CodeReview/pkg/logger"
	"github.com/YagorVitor/CodeReview/pkg/model"
	"github.com/YagorVitor/CodeReview/pkg/session"
)

var (
	ErrNotAuthor        = errors.New("only the author can delete this comment")
	ErrSubmitInProgress = errors.New("a submission is already in progress")
	ErrEmptyContent     = errors.New("comment cannot be empty")
	ErrNotConfirmed     = errors.New("deletion not confirmed")
	ErrClosed           = errors.New("thread is closed")
	ErrReplyClosed      = errors.New("reply draft is no longer open")
)

// RefreshError reports a mutation that succeeded but whose follow-up refresh
// failed. The server state is correct; only the local copy is stale.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("refresh after change failed: %v", e.Err)
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

// Mutator creates and deletes comments.
type Mutator interface {
	CreateComment(ctx context.Context, postID int64, c model.NewComment) (*model.Comment, error)
	DeleteComment(ctx context.Context, commentID int64) error
}

// Refresher refetches the shared post collection.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Checker validates the mentions of text about to be submitted.
type Checker interface {
	Check(ctx context.Context, text string) error
}

// ConfirmFunc asks the user to confirm deleting c.
type ConfirmFunc func(c model.Comment) bool

// Thread mediates authoring and deletion on one post. It never edits the
// comment forest itself; every successful change is followed by a refresh.
type Thread struct {
	postID    int64
	session   *session.Session
	mutator   Mutator
	checker   Checker
	refresher Refresher

	mu     sync.Mutex
	closed bool
	main   *Draft
	reply  *Draft
}

// New creates a thread controller. checker and refresher may be nil.
func New(postID int64, sess *session.Session, mutator Mutator, checker Checker, refresher Refresher) *Thread {
	return &Thread{
		postID:    postID,
		session:   sess,
		mutator:   mutator,
		checker:   checker,
		refresher: refresher,
		main:      &Draft{},
	}
}

func (t *Thread) PostID() int64 {
	return t.postID
}

// Comment returns the top-level comment draft.
func (t *Thread) Comment() *Draft {
	return t.main
}

// OpenReply opens the reply draft for parentID, closing any other open reply.
// Reopening the same comment returns the existing draft.
func (t *Thread) OpenReply(parentID int64) *Draft {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.reply != nil && t.reply.parent != nil && *t.reply.parent == parentID {
		return t.reply
	}
	if t.reply != nil {
		logger.Debug("Closing reply draft", "parent_id", *t.reply.parent)
	}
	id := parentID
	t.reply = &Draft{parent: &id}
	return t.reply
}

// Reply returns the open reply draft, or nil.
func (t *Thread) Reply() *Draft {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reply
}

// ReplyingTo returns the comment the open reply answers.
func (t *Thread) ReplyingTo() (int64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.reply == nil {
		return 0, false
	}
	return *t.reply.parent, true
}

func (t *Thread) CloseReply() {
	t.mu.Lock()
	t.reply = nil
	t.mu.Unlock()
}

// CanDelete reports whether the session user may delete c.
func (t *Thread) CanDelete(c model.Comment) bool {
	return t.session.Owns(c.UserID)
}

// Submit validates and posts d, then refreshes. On failure the draft returns
// to composing with its text intact and the error recorded.
func (t *Thread) Submit(ctx context.Context, d *Draft) (*model.Comment, error) {
	if t.isClosed() {
		return nil, ErrClosed
	}
	if d.parent != nil && !t.isOpenReply(d) {
		return nil, ErrReplyClosed
	}
	text, err := d.begin()
	if err != nil {
		return nil, err
	}

	if t.checker != nil {
		if err := t.checker.Check(ctx, text); err != nil {
			t.finish(d, err)
			return nil, err
		}
	}

	created, err := t.mutator.CreateComment(ctx, t.postID, model.NewComment{Content: text, ParentID: d.ParentID()})
	if err != nil {
		err = fmt.Errorf("failed to post comment: %w", err)
		t.finish(d, err)
		return nil, err
	}
	logger.Info("Comment posted", "post_id", t.postID, "comment_id", created.ID, "parent_id", d.ParentID())

	if !t.finish(d, nil) {
		return created, nil
	}
	if d.parent != nil {
		t.mu.Lock()
		if t.reply == d {
			t.reply = nil
		}
		t.mu.Unlock()
	}
	return created, t.refresh(ctx)
}

// Delete removes c after confirmation, then refreshes. Non-authors are
// refused without contacting the server.
func (t *Thread) Delete(ctx context.Context, c model.Comment, confirm ConfirmFunc) error {
	if t.isClosed() {
		return ErrClosed
	}
	if !t.CanDelete(c) {
		return ErrNotAuthor
	}
	if confirm == nil || !confirm(c) {
		return ErrNotConfirmed
	}

	if err := t.mutator.DeleteComment(ctx, c.ID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	logger.Info("Comment deleted", "post_id", t.postID, "comment_id", c.ID)

	if t.isClosed() {
		return nil
	}
	return t.refresh(ctx)
}

// Close detaches the thread. Calls still in flight complete on the server,
// but their results no longer touch the drafts or trigger refreshes.
func (t *Thread) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
}

func (t *Thread) isOpenReply(d *Draft) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reply == d
}

func (t *Thread) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// finish settles d unless the thread was closed meanwhile. It reports whether
// the outcome was applied.
func (t *Thread) finish(d *Draft, err error) bool {
	if t.isClosed() {
		logger.Debug("Thread closed, dropping result", "post_id", t.postID)
		return false
	}
	d.end(err)
	return true
}

func (t *Thread) refresh(ctx context.Context) error {
	if t.refresher == nil {
		return nil
	}
	if err := t.refresher.Refresh(ctx); err != nil {
		logger.Warn("Refresh failed", "post_id", t.postID, "error", err)
		return &RefreshError{Err: err}
	}
	return nil
}

// Phase is the state of a draft.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseComposing
	PhaseSubmitting
)

func (p Phase) String() string {
	switch p {
	case PhaseComposing:
		return "composing"
	case PhaseSubmitting:
		return "submitting"
	default:
		return "idle"
	}
}

// Draft is the authoring state of one composer: the new-comment box or the
// single open reply.
type Draft struct {
	parent *int64

	mu    sync.Mutex
	text  string
	phase Phase
	err   error
}

// ParentID is nil for a top-level comment.
func (d *Draft) ParentID() *int64 {
	if d.parent == nil {
		return nil
	}
	id := *d.parent
	return &id
}

// SetText records an edit. It does not change the phase of a draft being
// submitted.
func (d *Draft) SetText(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.text = text
	if d.phase == PhaseSubmitting {
		return
	}
	if strings.TrimSpace(text) == "" {
		d.phase = PhaseIdle
	} else {
		d.phase = PhaseComposing
	}
}

func (d *Draft) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text
}

func (d *Draft) Phase() Phase {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.phase
}

// Err returns the error of the last failed submission.
func (d *Draft) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

func (d *Draft) begin() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.phase == PhaseSubmitting {
		return "", ErrSubmitInProgress
	}
	text := strings.TrimSpace(d.text)
	if text == "" {
		d.err = ErrEmptyContent
		return "", ErrEmptyContent
	}
	d.phase = PhaseSubmitting
	d.err = nil
	return text, nil
}

func (d *Draft) end(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.phase = PhaseComposing
		d.err = err
		return
	}
	d.text = ""
	d.phase = PhaseIdle
	d.err = nil
}
