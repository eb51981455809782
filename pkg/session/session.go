// Package session exposes the signed-in user as a read-only value passed to
// the components that act on the user's behalf.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/YagorVitor/CodeReview/pkg/credentials"
)

// ErrNotLoggedIn is returned when no usable credentials are stored.
var ErrNotLoggedIn = errors.New("not logged in")

// Claims is the payload of a backend access token.
type Claims struct {
	UserID int64 `json:"user_id"`
	Admin  bool  `json:"admin"`
	jwt.RegisteredClaims
}

// Session identifies the acting user.
type Session struct {
	UserID    int64
	Username  string
	Admin     bool
	Token     string
	ExpiresAt time.Time
}

// FromToken reads the claims of token. The signature is not checked: the
// backend does that on every request, the client only needs the identity.
func FromToken(token, username string) (*Session, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}
	if claims.UserID == 0 {
		return nil, errors.New("token carries no user id")
	}

	s := &Session{
		UserID:   claims.UserID,
		Username: username,
		Admin:    claims.Admin,
		Token:    token,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// FromCredentials builds a session from stored credentials, preferring the
// identity carried by the token.
func FromCredentials(creds *credentials.Credentials) (*Session, error) {
	if creds == nil || !creds.IsValid() {
		return nil, ErrNotLoggedIn
	}
	s, err := FromToken(creds.AccessToken, creds.Username)
	if err != nil {
		if creds.UserID == 0 {
			return nil, err
		}
		// opaque token, fall back to what was stored at login
		s = &Session{UserID: creds.UserID, Username: creds.Username, Admin: creds.IsAdmin, Token: creds.AccessToken}
	}
	if s.ExpiresAt.IsZero() {
		s.ExpiresAt = creds.ExpiresAt
	}
	return s, nil
}

// Load reads the stored credentials.
func Load() (*Session, error) {
	creds, err := credentials.Load()
	if err != nil {
		return nil, err
	}
	return FromCredentials(creds)
}

// Owns reports whether the session user is userID.
func (s *Session) Owns(userID int64) bool {
	return s != nil && s.UserID != 0 && s.UserID == userID
}

// Expired reports whether the token expired before now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
