// Package memory is an in-process ledger used by tests and by the offline
// LEDGER_BACKEND=memory mode of the CLI.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"zaim/internal/core"
	"zaim/internal/ledger"
)

type Store struct {
	mu         sync.Mutex
	nextID     int64
	accounts   []core.Account
	categories []core.Category
	genres     []core.Genre
	records    []core.MoneyRecord
}

var _ ledger.Ledger = (*Store)(nil)

func New(accounts []core.Account, categories []core.Category, genres []core.Genre) *Store {
	return &Store{
		nextID:     1,
		accounts:   append([]core.Account(nil), accounts...),
		categories: append([]core.Category(nil), categories...),
		genres:     append([]core.Genre(nil), genres...),
	}
}

// NewSeeded builds a store with a small plausible dataset for offline use.
func NewSeeded() *Store {
	return New(
		[]core.Account{
			{ID: 1, Name: "Wallet", Active: 1},
			{ID: 2, Name: "Bank", Active: 1},
			{ID: 3, Name: "Old card", Active: -1},
		},
		[]core.Category{
			{ID: 101, Name: "Salary", Mode: core.ModeIncome, Active: 1},
			{ID: 102, Name: "残高調整", Mode: core.ModeIncome, Active: 1},
			{ID: 201, Name: "Food", Mode: core.ModePayment, Active: 1},
		},
		[]core.Genre{
			{ID: 1011, Name: "Monthly", CategoryID: 101, Active: 1},
			{ID: 1021, Name: "Adjustment", CategoryID: 102, Active: 1},
			{ID: 2011, Name: "Groceries", CategoryID: 201, Active: 1},
		},
	)
}

func (s *Store) ListAccounts(_ context.Context) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Account(nil), s.accounts...), nil
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Category(nil), s.categories...), nil
}

func (s *Store) ListGenres(_ context.Context) ([]core.Genre, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Genre(nil), s.genres...), nil
}

// ListRecords pages through stored records ordered by date descending,
// mirroring the remote service's order=date behavior.
func (s *Store) ListRecords(_ context.Context, f ledger.RecordFilter) (ledger.RecordPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}

	var matched []core.MoneyRecord
	for _, r := range s.records {
		if f.Mode != "" && r.Mode != f.Mode {
			continue
		}
		if f.CategoryID != 0 && r.CategoryID != f.CategoryID {
			continue
		}
		if f.GenreID != 0 && r.GenreID != f.GenreID {
			continue
		}
		if !f.StartDate.IsZero() && r.Date.Before(f.StartDate.Time) {
			continue
		}
		if !f.EndDate.IsZero() && r.Date.After(f.EndDate.Time) {
			continue
		}
		matched = append(matched, r)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Date.After(matched[j].Date.Time)
	})

	start := (page - 1) * limit
	if start >= len(matched) {
		return ledger.RecordPage{}, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	out := append([]core.MoneyRecord(nil), matched[start:end]...)
	return ledger.RecordPage{Records: out}, nil
}

func (s *Store) CreatePayment(_ context.Context, p ledger.PaymentParams) (core.MoneyRecord, error) {
	rec := core.MoneyRecord{
		Mode:          core.ModePayment,
		Amount:        p.Amount,
		Date:          p.Date,
		CategoryID:    p.CategoryID,
		GenreID:       p.GenreID,
		FromAccountID: p.FromAccountID,
		Comment:       p.Comment,
		Name:          p.Name,
		Place:         p.Place,
	}
	return s.insert(rec), nil
}

func (s *Store) CreateIncome(_ context.Context, p ledger.IncomeParams) (core.MoneyRecord, error) {
	rec := core.MoneyRecord{
		Mode:        core.ModeIncome,
		Amount:      p.Amount,
		Date:        p.Date,
		CategoryID:  p.CategoryID,
		ToAccountID: p.ToAccountID,
		Comment:     p.Comment,
		Place:       p.Place,
	}
	return s.insert(rec), nil
}

func (s *Store) CreateTransfer(_ context.Context, p ledger.TransferParams) (core.MoneyRecord, error) {
	rec := core.MoneyRecord{
		Mode:          core.ModeTransfer,
		Amount:        p.Amount,
		Date:          p.Date,
		FromAccountID: p.FromAccountID,
		ToAccountID:   p.ToAccountID,
		Comment:       p.Comment,
	}
	return s.insert(rec), nil
}

func (s *Store) UpdateRecord(_ context.Context, id int64, recordType core.Mode, p ledger.UpdateParams) (core.MoneyRecord, error) {
	if !recordType.Valid() {
		return core.MoneyRecord{}, fmt.Errorf("%w: got %q", core.ErrInvalidRecordType, string(recordType))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.ID != id || r.Mode != recordType {
			continue
		}
		r.Amount = p.Amount
		r.Date = p.Date
		if p.CategoryID != 0 {
			r.CategoryID = p.CategoryID
		}
		if p.GenreID != 0 {
			r.GenreID = p.GenreID
		}
		if p.FromAccountID != 0 {
			r.FromAccountID = p.FromAccountID
		}
		if p.ToAccountID != 0 {
			r.ToAccountID = p.ToAccountID
		}
		if p.Comment != "" {
			r.Comment = p.Comment
		}
		s.records[i] = r
		return r, nil
	}
	return core.MoneyRecord{}, fmt.Errorf("record %d (%s) not found", id, recordType)
}

func (s *Store) DeleteRecord(_ context.Context, id int64, recordType core.Mode) (core.MoneyRecord, error) {
	if !recordType.Valid() {
		return core.MoneyRecord{}, fmt.Errorf("%w: got %q", core.ErrInvalidRecordType, string(recordType))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.ID != id || r.Mode != recordType {
			continue
		}
		s.records = append(s.records[:i], s.records[i+1:]...)
		return r, nil
	}
	return core.MoneyRecord{}, fmt.Errorf("record %d (%s) not found", id, recordType)
}

// Records returns a copy of all stored records, for tests and seeding.
func (s *Store) Records() []core.MoneyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.MoneyRecord(nil), s.records...)
}

// Seed inserts records directly, assigning ids.
func (s *Store) Seed(records ...core.MoneyRecord) {
	for _, r := range records {
		s.insert(r)
	}
}

func (s *Store) insert(rec core.MoneyRecord) core.MoneyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = s.nextID
	s.nextID++
	s.records = append(s.records, rec)
	return rec
}
