package credentials

import (
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/YagorVitor/CodeReview/pkg/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Credentials struct {
	AccessToken string `json:"access_token"`
	// ExpiresAt is zero when the token carries no expiry.
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
}

// Load loads credentials from disk. It returns nil, nil when none are stored.
func Load() (*Credentials, error) {
	path := config.GetCredentialsPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}

	return &creds, nil
}

// Save saves credentials to disk
func Save(creds *Credentials) error {
	path := config.GetCredentialsPath()

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}

	// owner read/write only
	return os.WriteFile(path, data, 0600)
}

// Delete deletes credentials from disk. Deleting missing credentials is not
// an error.
func Delete() error {
	err := os.Remove(config.GetCredentialsPath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// IsExpired checks if the access token is expired
func (c *Credentials) IsExpired() bool {
	return !c.ExpiresAt.IsZero() && time.Now().After(c.ExpiresAt)
}

// IsValid checks if credentials are valid
func (c *Credentials) IsValid() bool {
	return c.AccessToken != "" && !c.IsExpired()
}
