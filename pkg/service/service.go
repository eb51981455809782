// Package service implements the CLI commands on top of the core packages.
// Services print through pkg/output and return errors for the command layer
// to format.
package service

import (
	"context"
	"time"

	"github.com/YagorVitor/CodeReview/pkg/api"
	"github.com/YagorVitor/CodeReview/pkg/config"
	"github.com/YagorVitor/CodeReview/pkg/feed"
	"github.com/YagorVitor/CodeReview/pkg/mention"
	"github.com/YagorVitor/CodeReview/pkg/model"
	"github.com/YagorVitor/CodeReview/pkg/thread"
)

// PostMutator publishes, likes and deletes posts.
type PostMutator interface {
	CreatePost(ctx context.Context, p model.NewPost) (*model.Post, error)
	DeletePost(ctx context.Context, postID int64) error
	LikePost(ctx context.Context, postID int64) error
	UnlikePost(ctx context.Context, postID int64) error
}

// Backend is what the services need from the server.
type Backend interface {
	mention.Searcher
	mention.Resolver
	thread.Mutator
	feed.Source
	PostMutator
}

var _ Backend = (*api.Backend)(nil)

func newValidator(b Backend) *mention.Validator {
	return mention.NewValidator(b, mention.ParsePolicy(config.GetString("mention.on_resolve_error")))
}

func newLookup(b Backend) *mention.Lookup {
	debounce := config.GetDuration("mention.debounce")
	if debounce <= 0 {
		debounce = mention.DefaultDebounce
	}
	return mention.NewLookup(b, debounce, config.GetInt("mention.suggestion_limit"))
}

func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}

var now = time.Now
