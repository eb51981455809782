package thread

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YagorVitor/CodeReview/pkg/mention"
	"github.com/YagorVitor/CodeReview/pkg/model"
	"github.com/YagorVitor/CodeReview/pkg/session"
)

type fakeBackend struct {
	mu         sync.Mutex
	created    []model.NewComment
	deleted    []int64
	refreshes  int
	createErr  error
	deleteErr  error
	refreshErr error
	// gate, when set, blocks CreateComment until closed
	gate    chan struct{}
	entered chan struct{}
}

func (f *fakeBackend) CreateComment(_ context.Context, postID int64, c model.NewComment) (*model.Comment, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, c)
	return &model.Comment{ID: int64(100 + len(f.created)), PostID: postID, Content: c.Content, ParentID: c.ParentID}, nil
}

func (f *fakeBackend) DeleteComment(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBackend) Refresh(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	return f.refreshErr
}

type checkerFunc func(ctx context.Context, text string) error

func (f checkerFunc) Check(ctx context.Context, text string) error { return f(ctx, text) }

func newThread(b *fakeBackend, checker Checker) *Thread {
	return New(7, &session.Session{UserID: 1, Username: "me"}, b, checker, b)
}

func TestOpenReplyKeepsAtMostOne(t *testing.T) {
	th := newThread(&fakeBackend{}, nil)

	x := th.OpenReply(10)
	x.SetText("draft for x")
	id, ok := th.ReplyingTo()
	require.True(t, ok)
	assert.Equal(t, int64(10), id)

	y := th.OpenReply(20)
	assert.NotSame(t, x, y)
	assert.Same(t, y, th.Reply())
	id, _ = th.ReplyingTo()
	assert.Equal(t, int64(20), id)
	assert.Equal(t, "", y.Text())

	assert.Same(t, y, th.OpenReply(20))

	th.CloseReply()
	assert.Nil(t, th.Reply())
	_, ok = th.ReplyingTo()
	assert.False(t, ok)
}

func TestReplyDoesNotAffectCommentDraft(t *testing.T) {
	th := newThread(&fakeBackend{}, nil)
	th.Comment().SetText("top level")
	th.OpenReply(3).SetText("reply")

	assert.Equal(t, PhaseComposing, th.Comment().Phase())
	assert.Equal(t, "top level", th.Comment().Text())
}

func TestSubmitTopLevel(t *testing.T) {
	b := &fakeBackend{}
	th := newThread(b, nil)
	d := th.Comment()
	d.SetText("  looks good  ")
	assert.Equal(t, PhaseComposing, d.Phase())

	created, err := th.Submit(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.PostID)
	require.Len(t, b.created, 1)
	assert.Equal(t, "looks good", b.created[0].Content)
	assert.Nil(t, b.created[0].ParentID)
	assert.Equal(t, 1, b.refreshes)

	assert.Equal(t, PhaseIdle, d.Phase())
	assert.Equal(t, "", d.Text())
	assert.NoError(t, d.Err())
}

func TestSubmitReplySendsParentAndCloses(t *testing.T) {
	b := &fakeBackend{}
	th := newThread(b, nil)
	d := th.OpenReply(42)
	d.SetText("agreed")

	_, err := th.Submit(context.Background(), d)
	require.NoError(t, err)
	require.Len(t, b.created, 1)
	require.NotNil(t, b.created[0].ParentID)
	assert.Equal(t, int64(42), *b.created[0].ParentID)
	assert.Nil(t, th.Reply())
	assert.Equal(t, 1, b.refreshes)
}

func TestSubmitEmptyIsValidationError(t *testing.T) {
	b := &fakeBackend{}
	th := newThread(b, nil)
	d := th.Comment()
	d.SetText("   ")
	assert.Equal(t, PhaseIdle, d.Phase())

	_, err := th.Submit(context.Background(), d)
	assert.ErrorIs(t, err, ErrEmptyContent)
	assert.Empty(t, b.created)
	assert.Equal(t, 0, b.refreshes)
}

func TestSubmitInvalidMentionsKeepsText(t *testing.T) {
	b := &fakeBackend{}
	checker := checkerFunc(func(context.Context, string) error {
		return &mention.InvalidMentionsError{Usernames: []string{"ghost"}}
	})
	th := newThread(b, checker)
	d := th.Comment()
	d.SetText("hi @ghost")

	_, err := th.Submit(context.Background(), d)
	var invalid *mention.InvalidMentionsError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, []string{"ghost"}, invalid.Usernames)

	assert.Empty(t, b.created)
	assert.Equal(t, 0, b.refreshes)
	assert.Equal(t, "hi @ghost", d.Text())
	assert.Equal(t, PhaseComposing, d.Phase())
	assert.Equal(t, err, d.Err())
}

func TestSubmitNetworkFailureKeepsText(t *testing.T) {
	boom := errors.New("connection reset")
	b := &fakeBackend{createErr: boom}
	th := newThread(b, nil)
	d := th.Comment()
	d.SetText("important")

	_, err := th.Submit(context.Background(), d)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "important", d.Text())
	assert.Equal(t, PhaseComposing, d.Phase())
	assert.Equal(t, 0, b.refreshes)

	// retry after the failure succeeds
	b.createErr = nil
	_, err = th.Submit(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, PhaseIdle, d.Phase())
}

func TestSubmitBlocksDoubleSubmit(t *testing.T) {
	b := &fakeBackend{gate: make(chan struct{}), entered: make(chan struct{}, 1)}
	th := newThread(b, nil)
	d := th.Comment()
	d.SetText("once")

	done := make(chan error, 1)
	go func() {
		_, err := th.Submit(context.Background(), d)
		done <- err
	}()
	<-b.entered
	assert.Equal(t, PhaseSubmitting, d.Phase())

	_, err := th.Submit(context.Background(), d)
	assert.ErrorIs(t, err, ErrSubmitInProgress)

	close(b.gate)
	require.NoError(t, <-done)
	assert.Len(t, b.created, 1)
}

func TestSubmitRefreshFailureStillPosts(t *testing.T) {
	b := &fakeBackend{refreshErr: errors.New("feed down")}
	th := newThread(b, nil)
	d := th.Comment()
	d.SetText("posted anyway")

	created, err := th.Submit(context.Background(), d)
	require.NotNil(t, created)
	var refreshErr *RefreshError
	require.ErrorAs(t, err, &refreshErr)
	assert.Equal(t, PhaseIdle, d.Phase())
}

func TestDeleteRequiresAuthor(t *testing.T) {
	b := &fakeBackend{}
	th := newThread(b, nil)
	theirs := model.Comment{ID: 5, UserID: 2}

	assert.False(t, th.CanDelete(theirs))
	asked := false
	err := th.Delete(context.Background(), theirs, func(model.Comment) bool {
		asked = true
		return true
	})
	assert.ErrorIs(t, err, ErrNotAuthor)
	assert.False(t, asked)
	assert.Empty(t, b.deleted)
	assert.Equal(t, 0, b.refreshes)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	b := &fakeBackend{}
	th := newThread(b, nil)
	mine := model.Comment{ID: 5, UserID: 1}

	assert.True(t, th.CanDelete(mine))
	assert.ErrorIs(t, th.Delete(context.Background(), mine, nil), ErrNotConfirmed)
	assert.ErrorIs(t, th.Delete(context.Background(), mine, func(model.Comment) bool { return false }), ErrNotConfirmed)
	assert.Empty(t, b.deleted)

	require.NoError(t, th.Delete(context.Background(), mine, func(model.Comment) bool { return true }))
	assert.Equal(t, []int64{5}, b.deleted)
	assert.Equal(t, 1, b.refreshes)
}

func TestDeleteWithoutSession(t *testing.T) {
	b := &fakeBackend{}
	th := New(7, nil, b, nil, b)
	assert.False(t, th.CanDelete(model.Comment{ID: 1, UserID: 0}))
}

func TestDeleteFailureSkipsRefresh(t *testing.T) {
	b := &fakeBackend{deleteErr: errors.New("500")}
	th := newThread(b, nil)

	err := th.Delete(context.Background(), model.Comment{ID: 5, UserID: 1}, func(model.Comment) bool { return true })
	assert.Error(t, err)
	assert.Equal(t, 0, b.refreshes)
}

func TestCloseDropsLateResults(t *testing.T) {
	b := &fakeBackend{gate: make(chan struct{}), entered: make(chan struct{}, 1)}
	th := newThread(b, nil)
	d := th.Comment()
	d.SetText("in flight")

	done := make(chan error, 1)
	go func() {
		_, err := th.Submit(context.Background(), d)
		done <- err
	}()
	<-b.entered
	th.Close()
	close(b.gate)

	require.NoError(t, <-done)
	assert.Equal(t, 0, b.refreshes)
	assert.Equal(t, "in flight", d.Text())

	_, err := th.Submit(context.Background(), d)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSubmitReplacedReplyIsRefused(t *testing.T) {
	b := &fakeBackend{}
	th := newThread(b, nil)
	x := th.OpenReply(10)
	x.SetText("reply to x")
	th.OpenReply(20)

	_, err := th.Submit(context.Background(), x)
	assert.ErrorIs(t, err, ErrReplyClosed)
	assert.Empty(t, b.created)
	assert.Equal(t, "reply to x", x.Text())

	y := th.Reply()
	y.SetText("reply to y")
	_, err = th.Submit(context.Background(), y)
	require.NoError(t, err)
	require.Len(t, b.created, 1)
	assert.Equal(t, int64(20), *b.created[0].ParentID)
}

func TestSubmitAfterCloseReplyIsRefused(t *testing.T) {
	b := &fakeBackend{}
	th := newThread(b, nil)
	d := th.OpenReply(10)
	d.SetText("never sent")
	th.CloseReply()

	_, err := th.Submit(context.Background(), d)
	assert.ErrorIs(t, err, ErrReplyClosed)
	assert.Empty(t, b.created)
}
