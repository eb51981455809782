package api

import (
	"context"

	"github.com/YagorVitor/CodeReview/pkg/client"
	"github.com/YagorVitor/CodeReview/pkg/logger"
	"github.com/YagorVitor/CodeReview/pkg/model"
)

// UpdateBio replaces the bio of userID. The profile endpoint takes a
// multipart form.
func UpdateBio(ctx context.Context, userID int64, bio string) (*model.User, error) {
	logger.Debug("Updating bio", "user_id", userID)

	var user User
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetMultipartFormData(map[string]string{"bio": bio}).
		SetResult(&user).
		SetPathParam("id", itoa(userID)).
		Put("/api/users/{id}/profile")

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	out := user.ToModel()
	return &out, nil
}

// Follow follows userID
func Follow(ctx context.Context, userID int64) error {
	logger.Debug("Following user", "user_id", userID)

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetPathParam("id", itoa(userID)).
		Post("/api/follow/{id}")

	return CheckResponse(resp, err)
}

// Unfollow unfollows userID
func Unfollow(ctx context.Context, userID int64) error {
	logger.Debug("Unfollowing user", "user_id", userID)

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetPathParam("id", itoa(userID)).
		Delete("/api/unfollow/{id}")

	return CheckResponse(resp, err)
}
