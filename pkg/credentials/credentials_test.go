package credentials

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YagorVitor/CodeReview/pkg/config"
)

// TestCredentialsIsExpired validates token expiration check
func TestCredentialsIsExpired(t *testing.T) {
	testCases := []struct {
		expiresAt time.Time
		expect    bool
		name      string
	}{
		{time.Now().Add(-1 * time.Hour), true, "past expiration"},
		{time.Now().Add(1 * time.Hour), false, "future expiration"},
		{time.Time{}, false, "no expiry"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			creds := &Credentials{AccessToken: "test_token", ExpiresAt: tc.expiresAt}
			assert.Equal(t, tc.expect, creds.IsExpired())
		})
	}
}

// TestCredentialsIsValid validates credential validity check
func TestCredentialsIsValid(t *testing.T) {
	testCases := []struct {
		accessToken string
		expiresAt   time.Time
		expect      bool
		name        string
	}{
		{"valid_token", time.Now().Add(1 * time.Hour), true, "valid credentials"},
		{"valid_token", time.Time{}, true, "token without expiry"},
		{"", time.Now().Add(1 * time.Hour), false, "empty access token"},
		{"valid_token", time.Now().Add(-1 * time.Hour), false, "expired token"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			creds := &Credentials{AccessToken: tc.accessToken, ExpiresAt: tc.expiresAt}
			assert.Equal(t, tc.expect, creds.IsValid())
		})
	}
}

func TestSaveLoadDelete(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.Init(filepath.Join(dir, "config.toml")))

	creds, err := Load()
	require.NoError(t, err)
	assert.Nil(t, creds)

	saved := &Credentials{AccessToken: "tok", UserID: 42, Username: "alice", Email: "a@example.com"}
	require.NoError(t, Save(saved))

	info, err := os.Stat(config.GetCredentialsPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, int64(42), loaded.UserID)
	assert.Equal(t, "alice", loaded.Username)
	assert.True(t, loaded.IsValid())

	require.NoError(t, Delete())
	require.NoError(t, Delete())
	loaded, err = Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
