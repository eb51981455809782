package api

import (
	"context"

	"github.com/YagorVitor/CodeReview/pkg/client"
	"github.com/YagorVitor/CodeReview/pkg/logger"
)

// Login authenticates user with email and password
func Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	logger.Debug("Attempting login", "email", email)

	var loginResp LoginResponse
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetBody(LoginRequest{Email: email, Password: password}).
		SetResult(&loginResp).
		Post("/api/login")

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	logger.Debug("Login successful", "username", loginResp.User.Username)
	return &loginResp, nil
}
