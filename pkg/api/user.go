package api

import (
	"context"

	"github.com/YagorVitor/CodeReview/pkg/client"
	"github.com/YagorVitor/CodeReview/pkg/logger"
	"github.com/YagorVitor/CodeReview/pkg/model"
)

// ResolveUsernames returns the subset of usernames that belong to existing
// users, as spelled by the backend.
func ResolveUsernames(ctx context.Context, usernames []string) ([]string, error) {
	if len(usernames) == 0 {
		return nil, nil
	}
	logger.Debug("Resolving usernames", "count", len(usernames))

	var users []User
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetBody(ResolveUsernamesRequest{Usernames: usernames}).
		SetResult(&users).
		Post("/api/users/by_usernames")

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	found := make([]string, 0, len(users))
	for _, u := range users {
		found = append(found, u.Username)
	}
	return found, nil
}

// GetUserByUsername fetches a profile. A missing user is an *APIError with
// status 404 (see IsNotFound).
func GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	logger.Debug("Fetching user", "username", username)

	var user User
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetResult(&user).
		SetPathParam("username", username).
		Get("/api/users/by_username/{username}")

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	out := user.ToModel()
	return &out, nil
}

// GetFollowersCount returns the follower count of a user
func GetFollowersCount(ctx context.Context, userID int64) (int, error) {
	var followers FollowersResponse
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetResult(&followers).
		SetPathParam("id", itoa(userID)).
		Get("/api/users/{id}/followers")

	if err := CheckResponse(resp, err); err != nil {
		return 0, err
	}
	return followers.Count, nil
}
