// Package zaim is the HTTP gateway to the Zaim REST API. Requests are signed
// with OAuth 1.0a (HMAC-SHA1); every call is a single attempt with no retry.
package zaim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dghubble/oauth1"

	"zaim/internal/core"
	"zaim/internal/ledger"
)

const DefaultBaseURL = "https://api.zaim.net/v2"

const (
	// maxPageLimit is the server-side cap on records per page.
	maxPageLimit = 100
	// maxTextLen is the undocumented remote limit on free-text fields.
	maxTextLen = 100

	defaultTimeout = 30 * time.Second
)

// Config configures the gateway. Credentials are explicit; the gateway never
// reads the environment itself.
type Config struct {
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string

	// BaseURL overrides the API endpoint (tests). Defaults to DefaultBaseURL.
	BaseURL string

	// HTTPClient overrides the signed client (tests). When nil, an OAuth1
	// signing client with a 30s timeout is built from the credentials.
	HTTPClient *http.Client
}

type Client struct {
	http    *http.Client
	baseURL string
}

var _ ledger.Ledger = (*Client)(nil)

// New validates the credentials and builds a gateway. It fails with
// core.ErrCredentialsMissing when any of the four OAuth values is absent.
func New(cfg Config) (*Client, error) {
	if cfg.ConsumerKey == "" || cfg.ConsumerSecret == "" ||
		cfg.AccessToken == "" || cfg.AccessTokenSecret == "" {
		return nil, core.ErrCredentialsMissing
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		oc := oauth1.NewConfig(cfg.ConsumerKey, cfg.ConsumerSecret)
		token := oauth1.NewToken(cfg.AccessToken, cfg.AccessTokenSecret)
		httpClient = oc.Client(oauth1.NoContext, token)
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{http: httpClient, baseURL: baseURL}, nil
}

// User is the authenticated user as returned by the verify endpoint.
type User struct {
	ID           int64  `json:"id"`
	Login        string `json:"login"`
	Name         string `json:"name"`
	InputCount   int64  `json:"input_count"`
	CurrencyCode string `json:"currency_code"`
}

// VerifyUser checks that the stored credentials are still valid and returns
// the user they belong to.
func (c *Client) VerifyUser(ctx context.Context) (User, error) {
	var out struct {
		Me User `json:"me"`
	}
	if err := c.do(ctx, http.MethodGet, "/home/user/verify", nil, nil, &out); err != nil {
		return User{}, err
	}
	return out.Me, nil
}

// do issues one signed request. GET parameters travel in the query string,
// mutations as a form-encoded body. Any failure comes back as *ledger.RequestError.
func (c *Client) do(ctx context.Context, method, endpoint string, query, form url.Values, out any) error {
	op := method + " " + endpoint

	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if len(form) > 0 {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return &ledger.RequestError{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &ledger.RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		slog.DebugContext(ctx, "API request rejected", "op", op, "status", resp.StatusCode)
		return &ledger.RequestError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(snippet))),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &ledger.RequestError{
				Op:         op,
				StatusCode: resp.StatusCode,
				Err:        fmt.Errorf("decode response: %w", err),
			}
		}
	}
	return nil
}

// truncateText silently trims a free-text field to the remote limit,
// counting runes so multibyte text is not cut mid-character.
func truncateText(s string) string {
	r := []rune(s)
	if len(r) <= maxTextLen {
		return s
	}
	return string(r[:maxTextLen])
}
