package api

import (
	"context"
	"strings"

	"github.com/YagorVitor/CodeReview/pkg/client"
	"github.com/YagorVitor/CodeReview/pkg/logger"
	"github.com/YagorVitor/CodeReview/pkg/model"
)

// SearchUsers searches users by username or name. The backend rejects an
// empty query, so an empty query returns no users without a request.
func SearchUsers(ctx context.Context, query string, limit int) ([]model.UserSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	logger.Debug("Searching users", "query", query, "limit", limit)

	var users []User
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetQueryParam("q", query).
		SetResult(&users).
		Get("/api/users/search")

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	out := make([]model.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
