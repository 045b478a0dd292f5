// Package balance computes account balances by replaying transaction history
// and reconciles them toward target amounts with synthetic adjustment
// records. The remote service stays the single source of truth: nothing is
// persisted locally and every balance is recomputed from scratch.
package balance

import (
	"context"
	"fmt"
	"time"

	"zaim/internal/core"
	"zaim/internal/ledger"
)

// DefaultLookbackDays bounds the history replay window. Records older than
// this are ignored, so the computed balance is an approximation for accounts
// with older history.
const DefaultLookbackDays = 365

// pageLimit is the per-page record count used while replaying history.
const pageLimit = 100

// Options tune a Manager. Zero values fall back to defaults.
type Options struct {
	// LookbackDays is the history window; defaults to DefaultLookbackDays.
	LookbackDays int

	// AdjustmentMarkers are the category-name substrings recognized as
	// marking an adjustment category; defaults to core.DefaultAdjustmentMarkers.
	AdjustmentMarkers []string

	// CommentPrefix prefixes generated adjustment comments; defaults to "CLI".
	CommentPrefix string

	// Now overrides the clock (tests).
	Now func() time.Time
}

// Manager reconciles account balances. Master data (accounts, categories,
// genres) is cached for the lifetime of the Manager and can be dropped with
// Refresh; nothing survives past the instance.
type Manager struct {
	ledger ledger.Ledger
	opts   Options

	accounts   []core.Account
	categories []core.Category
	genres     []core.Genre
}

func NewManager(l ledger.Ledger, opts Options) *Manager {
	if opts.LookbackDays <= 0 {
		opts.LookbackDays = DefaultLookbackDays
	}
	if len(opts.AdjustmentMarkers) == 0 {
		opts.AdjustmentMarkers = core.DefaultAdjustmentMarkers
	}
	if opts.CommentPrefix == "" {
		opts.CommentPrefix = "CLI"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{ledger: l, opts: opts}
}

// Refresh drops the cached master data so the next lookup refetches it.
func (m *Manager) Refresh() {
	m.accounts = nil
	m.categories = nil
	m.genres = nil
}

func (m *Manager) listAccounts(ctx context.Context) ([]core.Account, error) {
	if m.accounts == nil {
		accounts, err := m.ledger.ListAccounts(ctx)
		if err != nil {
			return nil, fmt.Errorf("list accounts: %w", err)
		}
		m.accounts = accounts
	}
	return m.accounts, nil
}

func (m *Manager) listCategories(ctx context.Context) ([]core.Category, error) {
	if m.categories == nil {
		categories, err := m.ledger.ListCategories(ctx)
		if err != nil {
			return nil, fmt.Errorf("list categories: %w", err)
		}
		m.categories = categories
	}
	return m.categories, nil
}

func (m *Manager) listGenres(ctx context.Context) ([]core.Genre, error) {
	if m.genres == nil {
		genres, err := m.ledger.ListGenres(ctx)
		if err != nil {
			return nil, fmt.Errorf("list genres: %w", err)
		}
		m.genres = genres
	}
	return m.genres, nil
}

// FindAccount fuzzily matches query against account names. The first match
// in listing order wins; zero matches fail with core.ErrAccountNotFound.
func (m *Manager) FindAccount(ctx context.Context, query string) (core.Account, error) {
	accounts, err := m.listAccounts(ctx)
	if err != nil {
		return core.Account{}, err
	}
	for _, a := range accounts {
		if core.NameMatches(query, a.Name) {
			return a, nil
		}
	}
	return core.Account{}, fmt.Errorf("%w: %q", core.ErrAccountNotFound, query)
}

// ShowBalance reports the computed balance of the named account, or of every
// active account when query is empty. Accounts are computed one at a time;
// any failure aborts the whole listing.
func (m *Manager) ShowBalance(ctx context.Context, query string) ([]core.AccountBalance, error) {
	if query != "" {
		account, err := m.FindAccount(ctx, query)
		if err != nil {
			return nil, err
		}
		snap, err := m.CurrentBalance(ctx, account.ID)
		if err != nil {
			return nil, err
		}
		return []core.AccountBalance{{
			ID:               account.ID,
			Name:             account.Name,
			Balance:          snap.NetChange,
			TransactionCount: snap.TransactionCount,
		}}, nil
	}

	accounts, err := m.listAccounts(ctx)
	if err != nil {
		return nil, err
	}
	var out []core.AccountBalance
	for _, a := range accounts {
		if !a.IsActive() {
			continue
		}
		snap, err := m.CurrentBalance(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("account %q: %w", a.Name, err)
		}
		out = append(out, core.AccountBalance{
			ID:               a.ID,
			Name:             a.Name,
			Balance:          snap.NetChange,
			TransactionCount: snap.TransactionCount,
		})
	}
	return out, nil
}
