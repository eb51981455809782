package api

import (
	"context"

	"github.com/YagorVitor/CodeReview/pkg/client"
	"github.com/YagorVitor/CodeReview/pkg/logger"
	"github.com/YagorVitor/CodeReview/pkg/model"
)

// GetPost fetches a post with its nested comments
func GetPost(ctx context.Context, postID int64) (*model.Post, error) {
	logger.Debug("Fetching post", "post_id", postID)

	var post Post
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetPathParam("id", itoa(postID)).
		SetResult(&post).
		Get("/api/posts/{id}")

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	out := post.ToModel()
	return &out, nil
}

// CreatePost publishes a text post. The endpoint only accepts a multipart
// form; images are not sent.
func CreatePost(ctx context.Context, p model.NewPost) (*model.Post, error) {
	logger.Debug("Creating post", "content_len", len(p.Content))

	var post Post
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetMultipartFormData(map[string]string{
			"content":     p.Content,
			"description": p.Description,
		}).
		SetResult(&post).
		Post("/api/posts")

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	out := post.ToModel()
	return &out, nil
}

// DeletePost deletes a post by ID
func DeletePost(ctx context.Context, postID int64) error {
	logger.Debug("Deleting post", "post_id", postID)

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetPathParam("id", itoa(postID)).
		Delete("/api/posts/{id}")

	return CheckResponse(resp, err)
}

// LikePost likes a post
func LikePost(ctx context.Context, postID int64) error {
	logger.Debug("Liking post", "post_id", postID)

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetPathParam("id", itoa(postID)).
		Post("/api/posts/{id}/like")

	return CheckResponse(resp, err)
}

// UnlikePost removes the user's like from a post
func UnlikePost(ctx context.Context, postID int64) error {
	logger.Debug("Unliking post", "post_id", postID)

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetPathParam("id", itoa(postID)).
		Delete("/api/posts/{id}/like")

	return CheckResponse(resp, err)
}
