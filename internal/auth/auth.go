// Package auth runs the three-legged OAuth 1.0a login against the Zaim
// endpoints and persists the resulting access token pair under the user's
// config directory.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dghubble/oauth1"

	"zaim/internal/core"
)

// Endpoint is the Zaim OAuth 1.0a endpoint set.
var Endpoint = oauth1.Endpoint{
	RequestTokenURL: "https://api.zaim.net/v2/auth/request",
	AuthorizeURL:    "https://auth.zaim.net/users/auth",
	AccessTokenURL:  "https://api.zaim.net/v2/auth/access",
}

const (
	configDirName = ".zaim-cli"
	tokenFileName = "tokens.json"
)

// StoredToken is the on-disk shape of a saved access token pair.
type StoredToken struct {
	AccessToken       string         `json:"access_token"`
	AccessTokenSecret string         `json:"access_token_secret"`
	UserInfo          map[string]any `json:"user_info,omitempty"`
	Timestamp         int64          `json:"timestamp"`
}

// Manager drives the login flow and owns the token file.
type Manager struct {
	consumerKey    string
	consumerSecret string
	tokenPath      string
}

// NewManager fails with core.ErrCredentialsMissing when the consumer pair is
// absent. The token directory (~/.zaim-cli) is created with mode 0700.
func NewManager(consumerKey, consumerSecret string) (*Manager, error) {
	if consumerKey == "" || consumerSecret == "" {
		return nil, core.ErrCredentialsMissing
	}
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	return &Manager{
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		tokenPath:      filepath.Join(dir, tokenFileName),
	}, nil
}

// ConfigDir returns the CLI's config directory (~/.zaim-cli).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// SaveTokens writes the token pair with mode 0600.
func (m *Manager) SaveTokens(tok StoredToken) error {
	if tok.Timestamp == 0 {
		tok.Timestamp = time.Now().Unix()
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tokens: %w", err)
	}
	if err := os.WriteFile(m.tokenPath, data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// LoadTokens reads the saved token pair. A missing file is not an error; it
// returns ok=false.
func (m *Manager) LoadTokens() (StoredToken, bool, error) {
	data, err := os.ReadFile(m.tokenPath)
	if errors.Is(err, os.ErrNotExist) {
		return StoredToken{}, false, nil
	}
	if err != nil {
		return StoredToken{}, false, fmt.Errorf("read token file: %w", err)
	}
	var tok StoredToken
	if err := json.Unmarshal(data, &tok); err != nil {
		return StoredToken{}, false, fmt.Errorf("decode token file: %w", err)
	}
	return tok, true, nil
}

// DeleteTokens removes the saved tokens (logout). Removing a file that does
// not exist is fine.
func (m *Manager) DeleteTokens() error {
	err := os.Remove(m.tokenPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete token file: %w", err)
	}
	return nil
}

// StoredCredentials returns the saved access token pair, if any.
func (m *Manager) StoredCredentials() (accessToken, accessTokenSecret string, ok bool) {
	tok, found, err := m.LoadTokens()
	if err != nil || !found {
		return "", "", false
	}
	if tok.AccessToken == "" || tok.AccessTokenSecret == "" {
		return "", "", false
	}
	return tok.AccessToken, tok.AccessTokenSecret, true
}

// oauthConfig builds the oauth1 config for the login flow.
func (m *Manager) oauthConfig(callbackURL string) *oauth1.Config {
	return &oauth1.Config{
		ConsumerKey:    m.consumerKey,
		ConsumerSecret: m.consumerSecret,
		CallbackURL:    callbackURL,
		Endpoint:       Endpoint,
	}
}
