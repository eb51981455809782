package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YagorVitor/CodeReview/pkg/config"
	"github.com/YagorVitor/CodeReview/pkg/credentials"
)

func signToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return token
}

func TestFromToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"user_id": 7, "admin": true})

	s, err := FromToken(token, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(7), s.UserID)
	assert.Equal(t, "alice", s.Username)
	assert.True(t, s.Admin)
	assert.True(t, s.ExpiresAt.IsZero())
	assert.False(t, s.Expired(time.Now()))
}

func TestFromTokenWithExpiry(t *testing.T) {
	exp := time.Now().Add(-time.Minute).Truncate(time.Second)
	token := signToken(t, Claims{UserID: 3, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)}})

	s, err := FromToken(token, "bob")
	require.NoError(t, err)
	assert.True(t, s.ExpiresAt.Equal(exp))
	assert.True(t, s.Expired(time.Now()))
}

func TestFromTokenRejectsGarbage(t *testing.T) {
	_, err := FromToken("not-a-jwt", "x")
	assert.Error(t, err)

	_, err = FromToken(signToken(t, jwt.MapClaims{"admin": false}), "x")
	assert.Error(t, err)
}

func TestFromCredentials(t *testing.T) {
	_, err := FromCredentials(nil)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = FromCredentials(&credentials.Credentials{})
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	s, err := FromCredentials(&credentials.Credentials{AccessToken: "opaque", UserID: 9, Username: "carol"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), s.UserID)
	assert.Equal(t, "opaque", s.Token)
}

func TestLoad(t *testing.T) {
	require.NoError(t, config.Init(filepath.Join(t.TempDir(), "config.toml")))

	_, err := Load()
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	token := signToken(t, jwt.MapClaims{"user_id": 11})
	require.NoError(t, credentials.Save(&credentials.Credentials{AccessToken: token, Username: "dave"}))

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(11), s.UserID)
	assert.Equal(t, "dave", s.Username)
}

func TestOwns(t *testing.T) {
	var none *Session
	assert.False(t, none.Owns(1))
	assert.False(t, (&Session{}).Owns(0))
	assert.True(t, (&Session{UserID: 5}).Owns(5))
	assert.False(t, (&Session{UserID: 5}).Owns(6))
}
