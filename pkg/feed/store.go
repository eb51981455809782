// Package feed owns the in-memory post collection. The Store is its only
// writer; everything else reads snapshots and asks for refreshes.
package feed

import (
	"context"
	"sync"
	"time"

	"github.com/YagorVitor/CodeReview/pkg/logger"
	"github.com/YagorVitor/CodeReview/pkg/model"
)

// FetchFunc loads the full post collection.
type FetchFunc func(ctx context.Context) ([]model.Post, error)

// Store holds the last fetched posts. Refreshes replace the collection
// wholesale; a refresh that started before an already applied one is dropped.
type Store struct {
	fetch FetchFunc

	mu        sync.RWMutex
	posts     []model.Post
	started   uint64
	applied   uint64
	updatedAt time.Time
	listeners []func([]model.Post)
}

// NewStore creates an empty store over fetch.
func NewStore(fetch FetchFunc) *Store {
	return &Store{fetch: fetch}
}

// Refresh fetches and replaces the collection.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.started++
	seq := s.started
	s.mu.Unlock()

	posts, err := s.fetch(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if seq < s.applied {
		s.mu.Unlock()
		logger.Debug("Dropping superseded refresh", "seq", seq)
		return nil
	}
	s.applied = seq
	s.posts = posts
	s.updatedAt = time.Now()
	listeners := append(([]func([]model.Post))(nil), s.listeners...)
	s.mu.Unlock()

	logger.Debug("Feed refreshed", "posts", len(posts), "seq", seq)
	snapshot := clonePosts(posts)
	for _, fn := range listeners {
		fn(snapshot)
	}
	return nil
}

// Subscribe registers fn to receive every applied collection.
func (s *Store) Subscribe(fn func([]model.Post)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Posts returns a snapshot of the collection.
func (s *Store) Posts() []model.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePosts(s.posts)
}

// Post returns one post by id.
func (s *Store) Post(id int64) (model.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.posts {
		if p.ID == id {
			return clonePosts([]model.Post{p})[0], true
		}
	}
	return model.Post{}, false
}

// Comments returns the comment forest of a post.
func (s *Store) Comments(postID int64) []model.Comment {
	p, ok := s.Post(postID)
	if !ok {
		return nil
	}
	return p.Comments
}

// UpdatedAt returns when the collection was last replaced.
func (s *Store) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

func clonePosts(posts []model.Post) []model.Post {
	if posts == nil {
		return nil
	}
	out := make([]model.Post, len(posts))
	for i, p := range posts {
		p.Comments = cloneComments(p.Comments)
		out[i] = p
	}
	return out
}

func cloneComments(comments []model.Comment) []model.Comment {
	if comments == nil {
		return nil
	}
	out := make([]model.Comment, len(comments))
	for i, c := range comments {
		c.Replies = cloneComments(c.Replies)
		out[i] = c
	}
	return out
}

// Source is the backend view of posts.
type Source interface {
	ListPosts(ctx context.Context, page, perPage int) ([]model.Post, error)
	GetPost(ctx context.Context, id int64) (*model.Post, error)
}

// Page fetches one page of the feed.
func Page(src Source, page, perPage int) FetchFunc {
	return func(ctx context.Context) ([]model.Post, error) {
		return src.ListPosts(ctx, page, perPage)
	}
}

// Single fetches one post as a one-element collection.
func Single(src Source, id int64) FetchFunc {
	return func(ctx context.Context) ([]model.Post, error) {
		p, err := src.GetPost(ctx, id)
		if err != nil {
			return nil, err
		}
		return []model.Post{*p}, nil
	}
}
