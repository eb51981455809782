package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/YagorVitor/CodeReview/pkg/api"
	"github.com/YagorVitor/CodeReview/pkg/client"
	"github.com/YagorVitor/CodeReview/pkg/credentials"
	"github.com/YagorVitor/CodeReview/pkg/logger"
	"github.com/YagorVitor/CodeReview/pkg/output"
	"github.com/YagorVitor/CodeReview/pkg/prompter"
	"github.com/YagorVitor/CodeReview/pkg/session"
)

type AuthService struct{}

// NewAuthService creates a new auth service
func NewAuthService() *AuthService {
	return &AuthService{}
}

// PromptLogin asks for email and password and logs in.
func (s *AuthService) PromptLogin(ctx context.Context) (*session.Session, error) {
	if current, err := session.Load(); err == nil && !current.Expired(now()) {
		output.PrintWarning("Already logged in as @%s", current.Username)
		confirm, err := prompter.PromptConfirm("Continue with new login?")
		if err != nil {
			return nil, err
		}
		if !confirm {
			return current, nil
		}
	}

	email, err := prompter.PromptString("Email: ")
	if err != nil {
		return nil, err
	}
	if email == "" {
		return nil, fmt.Errorf("email cannot be empty")
	}

	password, err := prompter.PromptPassword("Password: ")
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, fmt.Errorf("password cannot be empty")
	}

	return s.Login(ctx, email, password)
}

// Login authenticates, stores the credentials and installs the token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*session.Session, error) {
	resp, err := api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	creds := &credentials.Credentials{
		AccessToken: resp.Token,
		UserID:      resp.User.ID,
		Username:    resp.User.Username,
		Email:       resp.User.Email,
		IsAdmin:     resp.User.Admin,
	}
	sess, err := session.FromCredentials(creds)
	if err != nil {
		return nil, fmt.Errorf("login returned an unusable token: %w", err)
	}
	creds.ExpiresAt = sess.ExpiresAt

	if err := credentials.Save(creds); err != nil {
		return nil, fmt.Errorf("failed to save credentials: %w", err)
	}
	client.SetAuthToken(resp.Token)

	logger.Info("Logged in", "user_id", sess.UserID, "username", sess.Username)
	output.PrintSuccess("Logged in as @%s", sess.Username)
	return sess, nil
}

// Logout forgets the stored credentials.
func (s *AuthService) Logout() error {
	if err := credentials.Delete(); err != nil {
		return err
	}
	client.ClearAuthToken()
	output.PrintSuccess("Logged out")
	return nil
}

// Status reports the stored session.
func (s *AuthService) Status() (*session.Session, error) {
	sess, err := session.Load()
	if errors.Is(err, session.ErrNotLoggedIn) {
		output.PrintInfo("Not logged in")
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	record := map[string]interface{}{
		"user_id":  sess.UserID,
		"username": "@" + sess.Username,
		"admin":    sess.Admin,
	}
	switch {
	case sess.ExpiresAt.IsZero():
		record["expires"] = "never"
	case sess.Expired(now()):
		record["expires"] = "expired"
	default:
		record["expires"] = sess.ExpiresAt.Local().Format("2006-01-02 15:04")
	}
	return sess, output.PrintRecord("Session", record)
}
