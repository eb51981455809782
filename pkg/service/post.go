package service

import (
	"context"
	"strconv"
	"strings"

	clierrors "github.com/YagorVitor/CodeReview/pkg/errors"
	"github.com/YagorVitor/CodeReview/pkg/feed"
	"github.com/YagorVitor/CodeReview/pkg/logger"
	"github.com/YagorVitor/CodeReview/pkg/mention"
	"github.com/YagorVitor/CodeReview/pkg/model"
	"github.com/YagorVitor/CodeReview/pkg/output"
	"github.com/YagorVitor/CodeReview/pkg/session"
	"github.com/YagorVitor/CodeReview/pkg/thread"
)

// FeedPageSize is the page refreshed after a post is published or deleted.
const FeedPageSize = 20

// PostService publishes, likes and deletes posts. Every change is followed
// by a refresh of the affected posts.
type PostService struct {
	backend Backend
	sess    *session.Session
}

func NewPostService(backend Backend, sess *session.Session) *PostService {
	return &PostService{backend: backend, sess: sess}
}

// Send publishes a post without printing. Mentions in the content and the
// description must resolve. A refresh failure after publishing is returned
// separately from err.
func (ps *PostService) Send(ctx context.Context, content, description string) (*model.Post, *thread.RefreshError, error) {
	if ps.sess == nil {
		return nil, nil, session.ErrNotLoggedIn
	}
	p := model.NewPost{
		Content:     strings.TrimSpace(content),
		Description: strings.TrimSpace(description),
	}
	if p.Content == "" {
		return nil, nil, clierrors.ValidationError("content", "cannot be empty")
	}
	if err := newValidator(ps.backend).Check(ctx, p.Content+"\n"+p.Description); err != nil {
		return nil, nil, err
	}

	created, err := ps.backend.CreatePost(ctx, p)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Post published", "post_id", created.ID)

	store := feed.NewStore(feed.Page(ps.backend, 1, FeedPageSize))
	if err := store.Refresh(ctx); err != nil {
		logger.Warn("Feed refresh failed", "error", err)
		return created, &thread.RefreshError{Err: err}, nil
	}
	return created, nil, nil
}

// Report prints the outcome of a Send.
func (ps *PostService) Report(created *model.Post, refreshErr *thread.RefreshError) {
	if refreshErr != nil {
		output.PrintWarning("Post published, but the feed could not be reloaded: %v", refreshErr.Err)
	}
	output.PrintSuccess("Published post #%d", created.ID)
}

// Create publishes a post and reports it.
func (ps *PostService) Create(ctx context.Context, content, description string) (*model.Post, error) {
	created, refreshErr, err := ps.Send(ctx, content, description)
	if err != nil {
		return nil, err
	}
	ps.Report(created, refreshErr)
	return created, nil
}

// Like likes postID and prints the new like count.
func (ps *PostService) Like(ctx context.Context, postID int64) error {
	return ps.toggleLike(ctx, postID, true)
}

// Unlike removes the like from postID.
func (ps *PostService) Unlike(ctx context.Context, postID int64) error {
	return ps.toggleLike(ctx, postID, false)
}

func (ps *PostService) toggleLike(ctx context.Context, postID int64, like bool) error {
	if ps.sess == nil {
		return session.ErrNotLoggedIn
	}

	verb, call := "Liked", ps.backend.LikePost
	if !like {
		verb, call = "Unliked", ps.backend.UnlikePost
	}
	if err := call(ctx, postID); err != nil {
		return err
	}

	store := feed.NewStore(feed.Single(ps.backend, postID))
	if err := store.Refresh(ctx); err != nil {
		logger.Warn("Post refresh failed", "post_id", postID, "error", err)
		output.PrintSuccess("%s post #%d", verb, postID)
		return nil
	}
	post, _ := store.Post(postID)
	output.PrintSuccess("%s post #%d (%d like%s)", verb, postID, post.LikesCount, pluralize(post.LikesCount))
	return nil
}

// Delete removes one of the user's posts after confirm agrees. Admins may
// delete any post.
func (ps *PostService) Delete(ctx context.Context, postID int64, confirm func(model.Post) bool) error {
	if ps.sess == nil {
		return session.ErrNotLoggedIn
	}

	store := feed.NewStore(feed.Single(ps.backend, postID))
	if err := store.Refresh(ctx); err != nil {
		return err
	}
	post, ok := store.Post(postID)
	if !ok {
		return clierrors.NotFoundError("Post", strconv.FormatInt(postID, 10))
	}
	if !ps.sess.Owns(post.UserID) && !ps.sess.Admin {
		return clierrors.ForbiddenError("only the author can delete this post", nil)
	}
	if confirm == nil || !confirm(post) {
		return thread.ErrNotConfirmed
	}

	if err := ps.backend.DeletePost(ctx, postID); err != nil {
		return err
	}
	logger.Info("Post deleted", "post_id", postID)

	feedStore := feed.NewStore(feed.Page(ps.backend, 1, FeedPageSize))
	if err := feedStore.Refresh(ctx); err != nil {
		logger.Warn("Feed refresh failed after delete", "error", err)
	}
	output.PrintSuccess("Deleted post #%d", postID)
	return nil
}

// Lookup returns a suggestion lookup for the post composer.
func (ps *PostService) Lookup() *mention.Lookup {
	return newLookup(ps.backend)
}
