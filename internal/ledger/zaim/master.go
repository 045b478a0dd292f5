package zaim

import (
	"context"
	"net/http"
	"net/url"

	"zaim/internal/core"
)

// Master data endpoints. All carry mapping=1 like the record endpoints.

func (c *Client) ListCategories(ctx context.Context) ([]core.Category, error) {
	var out struct {
		Categories []core.Category `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/home/category", mappingQuery(), nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

func (c *Client) ListGenres(ctx context.Context) ([]core.Genre, error) {
	var out struct {
		Genres []core.Genre `json:"genres"`
	}
	if err := c.do(ctx, http.MethodGet, "/home/genre", mappingQuery(), nil, &out); err != nil {
		return nil, err
	}
	return out.Genres, nil
}

func (c *Client) ListAccounts(ctx context.Context) ([]core.Account, error) {
	var out struct {
		Accounts []core.Account `json:"accounts"`
	}
	if err := c.do(ctx, http.MethodGet, "/home/account", mappingQuery(), nil, &out); err != nil {
		return nil, err
	}
	return out.Accounts, nil
}

func mappingQuery() url.Values {
	q := url.Values{}
	q.Set("mapping", "1")
	return q
}
