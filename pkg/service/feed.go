package service

import (
	"context"

	"github.com/YagorVitor/CodeReview/pkg/feed"
	"github.com/YagorVitor/CodeReview/pkg/formatter"
	"github.com/YagorVitor/CodeReview/pkg/model"
	"github.com/YagorVitor/CodeReview/pkg/output"
)

// FeedService lists posts
type FeedService struct {
	backend Backend
}

func NewFeedService(backend Backend) *FeedService {
	return &FeedService{backend: backend}
}

// List fetches and prints one page of the feed.
func (fs *FeedService) List(ctx context.Context, page, perPage int) ([]model.Post, error) {
	store := feed.NewStore(feed.Page(fs.backend, page, perPage))
	if err := store.Refresh(ctx); err != nil {
		return nil, err
	}

	posts := store.Posts()
	if len(posts) == 0 && !output.IsJSON() {
		output.PrintInfo("No posts on page %d", max(page, 1))
		return posts, nil
	}
	return posts, output.PrintList(posts, formatter.PostColumns, formatter.PostRows(posts, now()))
}
