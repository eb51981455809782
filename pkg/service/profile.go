package service

import (
	"context"

	"github.com/dustin/go-humanize"

	"github.com/YagorVitor/CodeReview/pkg/api"
	clierrors "github.com/YagorVitor/CodeReview/pkg/errors"
	"github.com/YagorVitor/CodeReview/pkg/formatter"
	"github.com/YagorVitor/CodeReview/pkg/logger"
	"github.com/YagorVitor/CodeReview/pkg/mention"
	"github.com/YagorVitor/CodeReview/pkg/model"
	"github.com/YagorVitor/CodeReview/pkg/output"
	"github.com/YagorVitor/CodeReview/pkg/session"
	"github.com/YagorVitor/CodeReview/pkg/thread"
)

// ProfileService provides profile operations
type ProfileService struct {
	backend Backend
	sess    *session.Session
}

func NewProfileService(backend Backend, sess *session.Session) *ProfileService {
	return &ProfileService{backend: backend, sess: sess}
}

// Get fetches a profile by username. A missing user is a not_found error.
func (ps *ProfileService) Get(ctx context.Context, username string) (*model.User, error) {
	user, err := api.GetUserByUsername(ctx, username)
	if api.IsNotFound(err) {
		return nil, clierrors.NotFoundError("User", "@"+username)
	}
	if err != nil {
		return nil, err
	}

	if n, err := api.GetFollowersCount(ctx, user.ID); err == nil {
		user.FollowersCount = n
	} else {
		logger.Debug("Followers count unavailable", "user_id", user.ID, "error", err)
	}
	return user, nil
}

// View prints a profile with mentions in the bio linked.
func (ps *ProfileService) View(ctx context.Context, username string) error {
	user, err := ps.Get(ctx, username)
	if err != nil {
		return err
	}
	if output.IsJSON() {
		return output.Print(user)
	}

	record := formatter.ProfileRecord(*user)
	record["bio"] = thread.RenderText(user.Bio, thread.ProfilePath)
	return output.PrintRecord(user.Name(), record)
}

// SaveBio replaces the signed-in user's bio after checking its mentions.
func (ps *ProfileService) SaveBio(ctx context.Context, bio string) (*model.User, error) {
	if ps.sess == nil {
		return nil, session.ErrNotLoggedIn
	}
	if err := newValidator(ps.backend).Check(ctx, bio); err != nil {
		return nil, err
	}
	return api.UpdateBio(ctx, ps.sess.UserID, bio)
}

// UpdateBio saves bio and reports it.
func (ps *ProfileService) UpdateBio(ctx context.Context, bio string) (*model.User, error) {
	user, err := ps.SaveBio(ctx, bio)
	if err != nil {
		return nil, err
	}
	output.PrintSuccess("Bio updated")
	return user, nil
}

// Follow follows username and prints their new follower count.
func (ps *ProfileService) Follow(ctx context.Context, username string) error {
	return ps.setFollow(ctx, username, true)
}

// Unfollow stops following username.
func (ps *ProfileService) Unfollow(ctx context.Context, username string) error {
	return ps.setFollow(ctx, username, false)
}

func (ps *ProfileService) setFollow(ctx context.Context, username string, follow bool) error {
	if ps.sess == nil {
		return session.ErrNotLoggedIn
	}
	user, err := ps.Get(ctx, username)
	if err != nil {
		return err
	}
	if ps.sess.Owns(user.ID) {
		return clierrors.ValidationError("username", "you cannot follow yourself")
	}

	verb, call := "Following", api.Follow
	if !follow {
		verb, call = "Unfollowed", api.Unfollow
	}
	if err := call(ctx, user.ID); err != nil {
		return err
	}
	logger.Info("Follow changed", "user_id", user.ID, "follow", follow)

	n, err := api.GetFollowersCount(ctx, user.ID)
	if err != nil {
		logger.Warn("Followers count refresh failed", "user_id", user.ID, "error", err)
		output.PrintSuccess("%s @%s", verb, user.Username)
		return nil
	}
	output.PrintSuccess("%s @%s (%s follower%s)", verb, user.Username, humanize.Comma(int64(n)), pluralize(n))
	return nil
}

// Lookup returns a suggestion lookup for the bio composer.
func (ps *ProfileService) Lookup() *mention.Lookup {
	return newLookup(ps.backend)
}
