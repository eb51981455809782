package auth

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/YagorVitor/CodeReview/pkg/api"
	"github.com/YagorVitor/CodeReview/pkg/client"
	"github.com/YagorVitor/CodeReview/pkg/credentials"
	"github.com/YagorVitor/CodeReview/pkg/logger"
	"github.com/YagorVitor/CodeReview/pkg/session"
)

// SessionRecovery restores the stored session at startup and tears it down
// when the backend rejects the token.
type SessionRecovery struct {
	out io.Writer
	now func() time.Time

	once sync.Once
}

// NewSessionRecovery creates a recovery handler that reports to stderr.
func NewSessionRecovery() *SessionRecovery {
	return &SessionRecovery{out: os.Stderr, now: time.Now}
}

// Restore loads stored credentials and installs the token on the HTTP
// client. Expired credentials are deleted and yield session.ErrNotLoggedIn.
func (sr *SessionRecovery) Restore() (*session.Session, error) {
	sess, err := session.Load()
	if err != nil {
		return nil, err
	}
	if sess.Expired(sr.now()) {
		logger.Info("Stored session expired", "username", sess.Username, "expired_at", sess.ExpiresAt)
		sr.clear()
		return nil, session.ErrNotLoggedIn
	}
	client.SetAuthToken(sess.Token)
	client.SetUnauthorizedHandler(sr.HandleUnauthorized)
	logger.Debug("Session restored", "user_id", sess.UserID)
	return sess, nil
}

// HandleUnauthorized drops the rejected session. It reports once per
// process however many requests fail.
func (sr *SessionRecovery) HandleUnauthorized() {
	sr.once.Do(func() {
		logger.Warn("Backend rejected the session token")
		sr.clear()
		fmt.Fprintln(sr.out, "Your session is no longer valid. Run 'codereview-cli auth login' to sign in again.")
	})
}

func (sr *SessionRecovery) clear() {
	client.ClearAuthToken()
	if err := credentials.Delete(); err != nil {
		logger.Error("Failed to delete credentials", "error", err)
	}
}

// IsSessionError checks if an error is a session-related error
func IsSessionError(err error) bool {
	if err == nil {
		return false
	}
	return api.IsUnauthorized(err) || errors.Is(err, session.ErrNotLoggedIn)
}
