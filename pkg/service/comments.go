package service

import (
	"context"
	"errors"
	"strconv"

	clierrors "github.com/YagorVitor/CodeReview/pkg/errors"
	"github.com/YagorVitor/CodeReview/pkg/feed"
	"github.com/YagorVitor/CodeReview/pkg/formatter"
	"github.com/YagorVitor/CodeReview/pkg/logger"
	"github.com/YagorVitor/CodeReview/pkg/mention"
	"github.com/YagorVitor/CodeReview/pkg/model"
	"github.com/YagorVitor/CodeReview/pkg/output"
	"github.com/YagorVitor/CodeReview/pkg/session"
	"github.com/YagorVitor/CodeReview/pkg/thread"
)

// CommentService provides operations for viewing and writing comments
type CommentService struct {
	backend Backend
	sess    *session.Session
}

// NewCommentService creates a comment service. sess may be nil for
// read-only use.
func NewCommentService(backend Backend, sess *session.Session) *CommentService {
	return &CommentService{backend: backend, sess: sess}
}

// ViewOptions controls how a thread is printed.
type ViewOptions struct {
	MaxDepth int
	Collapse []int64
	Width    int
}

// Load fetches a post into a single-post store.
func (cs *CommentService) Load(ctx context.Context, postID int64) (*feed.Store, model.Post, error) {
	store := feed.NewStore(feed.Single(cs.backend, postID))
	if err := store.Refresh(ctx); err != nil {
		return nil, model.Post{}, err
	}
	post, ok := store.Post(postID)
	if !ok {
		return nil, model.Post{}, clierrors.NotFoundError("Post", strconv.FormatInt(postID, 10))
	}
	return store, post, nil
}

// View prints the comment thread of a post.
func (cs *CommentService) View(ctx context.Context, postID int64, opts ViewOptions) error {
	_, post, err := cs.Load(ctx, postID)
	if err != nil {
		return err
	}
	if output.IsJSON() {
		return output.Print(post)
	}

	formatter.Bold.Fprintln(output.Out, formatter.PostHeader(post, now()))
	if len(post.Comments) == 0 {
		output.PrintInfo("No comments yet")
		return nil
	}

	view := thread.NewView(opts.MaxDepth)
	for _, id := range opts.Collapse {
		view.Collapse(id)
	}
	return thread.Write(output.Out, view.Lines(post.Comments), thread.RenderOptions{
		Width:      opts.Width,
		Now:        now(),
		ProfileRef: thread.ProfilePath,
	})
}

// Open loads a post and returns a thread ready for drafting. It needs a
// session.
func (cs *CommentService) Open(ctx context.Context, postID int64) (*thread.Thread, *feed.Store, error) {
	if cs.sess == nil {
		return nil, nil, session.ErrNotLoggedIn
	}
	store, _, err := cs.Load(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	return thread.New(postID, cs.sess, cs.backend, newValidator(cs.backend), store), store, nil
}

// Draft returns the draft a submission goes through: the comment draft, or
// the reply draft for replyTo, which must be a comment of the post.
func (cs *CommentService) Draft(th *thread.Thread, store *feed.Store, replyTo *int64) (*thread.Draft, error) {
	if replyTo == nil {
		return th.Comment(), nil
	}
	if _, ok := model.FindComment(store.Comments(th.PostID()), *replyTo); !ok {
		return nil, clierrors.NotFoundError("Comment", strconv.FormatInt(*replyTo, 10))
	}
	return th.OpenReply(*replyTo), nil
}

// Send posts content through d without printing. A refresh failure after a
// successful post is returned separately from err.
func (cs *CommentService) Send(ctx context.Context, th *thread.Thread, d *thread.Draft, content string) (*model.Comment, *thread.RefreshError, error) {
	d.SetText(content)
	created, err := th.Submit(ctx, d)

	var refreshErr *thread.RefreshError
	if errors.As(err, &refreshErr) {
		return created, refreshErr, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return created, nil, nil
}

// Report prints the outcome of a Send.
func (cs *CommentService) Report(created *model.Comment, refreshErr *thread.RefreshError) {
	if refreshErr != nil {
		output.PrintWarning("Comment posted, but the thread could not be reloaded: %v", refreshErr.Err)
	}
	if created.IsReply() {
		output.PrintSuccess("Replied to #%d with comment #%d", *created.ParentID, created.ID)
	} else {
		output.PrintSuccess("Posted comment #%d", created.ID)
	}
}

// Submit posts content through d and reports the result. A refresh failure
// after a successful post is only a warning.
func (cs *CommentService) Submit(ctx context.Context, th *thread.Thread, d *thread.Draft, content string) (*model.Comment, error) {
	created, refreshErr, err := cs.Send(ctx, th, d, content)
	if err != nil {
		return nil, err
	}
	cs.Report(created, refreshErr)
	return created, nil
}

// Create posts content on postID, as a reply when replyTo is set.
func (cs *CommentService) Create(ctx context.Context, postID int64, replyTo *int64, content string) (*model.Comment, error) {
	th, store, err := cs.Open(ctx, postID)
	if err != nil {
		return nil, err
	}
	defer th.Close()

	d, err := cs.Draft(th, store, replyTo)
	if err != nil {
		return nil, err
	}
	return cs.Submit(ctx, th, d, content)
}

// Delete removes one of the user's comments after confirm agrees.
func (cs *CommentService) Delete(ctx context.Context, postID, commentID int64, confirm thread.ConfirmFunc) error {
	th, store, err := cs.Open(ctx, postID)
	if err != nil {
		return err
	}
	defer th.Close()

	c, ok := model.FindComment(store.Comments(postID), commentID)
	if !ok {
		return clierrors.NotFoundError("Comment", strconv.FormatInt(commentID, 10))
	}

	err = th.Delete(ctx, *c, confirm)
	var refreshErr *thread.RefreshError
	if errors.As(err, &refreshErr) {
		logger.Warn("Thread reload failed after delete", "error", refreshErr.Err)
		err = nil
	}
	if err != nil {
		return err
	}

	output.PrintSuccess("Deleted comment #%d", commentID)
	return nil
}

// Lookup returns a suggestion lookup configured from mention.* settings.
func (cs *CommentService) Lookup() *mention.Lookup {
	return newLookup(cs.backend)
}
