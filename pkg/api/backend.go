package api

import (
	"context"

	"github.com/YagorVitor/CodeReview/pkg/model"
)

// Backend adapts the package-level endpoint functions to the collaborator
// interfaces of the mention, thread and feed packages and the post
// mutations of the services.
type Backend struct{}

func NewBackend() *Backend {
	return &Backend{}
}

func (Backend) SearchUsers(ctx context.Context, query string, limit int) ([]model.UserSummary, error) {
	return SearchUsers(ctx, query, limit)
}

func (Backend) ResolveUsernames(ctx context.Context, usernames []string) ([]string, error) {
	return ResolveUsernames(ctx, usernames)
}

func (Backend) CreateComment(ctx context.Context, postID int64, c model.NewComment) (*model.Comment, error) {
	return CreateComment(ctx, postID, c)
}

func (Backend) DeleteComment(ctx context.Context, commentID int64) error {
	return DeleteComment(ctx, commentID)
}

func (Backend) ListPosts(ctx context.Context, page, perPage int) ([]model.Post, error) {
	return ListPosts(ctx, page, perPage)
}

func (Backend) GetPost(ctx context.Context, id int64) (*model.Post, error) {
	return GetPost(ctx, id)
}

func (Backend) CreatePost(ctx context.Context, p model.NewPost) (*model.Post, error) {
	return CreatePost(ctx, p)
}

func (Backend) DeletePost(ctx context.Context, postID int64) error {
	return DeletePost(ctx, postID)
}

func (Backend) LikePost(ctx context.Context, postID int64) error {
	return LikePost(ctx, postID)
}

func (Backend) UnlikePost(ctx context.Context, postID int64) error {
	return UnlikePost(ctx, postID)
}
