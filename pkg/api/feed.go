package api

import (
	"context"

	"github.com/YagorVitor/CodeReview/pkg/client"
	"github.com/YagorVitor/CodeReview/pkg/logger"
	"github.com/YagorVitor/CodeReview/pkg/model"
)

// ListPosts fetches one page of the feed
func ListPosts(ctx context.Context, page, perPage int) ([]model.Post, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	logger.Debug("Fetching feed", "page", page, "per_page", perPage)

	var posts []Post
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetQueryParam("page", itoa(int64(page))).
		SetQueryParam("per_page", itoa(int64(perPage))).
		SetResult(&posts).
		Get("/api/posts")

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	out := make([]model.Post, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ToModel())
	}
	return out, nil
}
