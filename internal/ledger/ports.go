package ledger

import (
	"context"

	"zaim/internal/core"
)

// Ports for the remote ledger service. The zaim package implements them over
// HTTP; the memory package implements them in-process for tests and the
// offline backend.
type (
	AccountReader interface {
		ListAccounts(ctx context.Context) ([]core.Account, error)
	}

	TaxonomyReader interface {
		ListCategories(ctx context.Context) ([]core.Category, error)
		ListGenres(ctx context.Context) ([]core.Genre, error)
	}

	// RecordLister returns one page of money records matching the filter.
	RecordLister interface {
		ListRecords(ctx context.Context, f RecordFilter) (RecordPage, error)
	}

	RecordWriter interface {
		CreatePayment(ctx context.Context, p PaymentParams) (core.MoneyRecord, error)
		CreateIncome(ctx context.Context, p IncomeParams) (core.MoneyRecord, error)
		CreateTransfer(ctx context.Context, p TransferParams) (core.MoneyRecord, error)
		UpdateRecord(ctx context.Context, id int64, recordType core.Mode, p UpdateParams) (core.MoneyRecord, error)
		DeleteRecord(ctx context.Context, id int64, recordType core.Mode) (core.MoneyRecord, error)
	}
)

// Ledger is the full remote service surface the reconciler depends on.
type Ledger interface {
	AccountReader
	TaxonomyReader
	RecordLister
	RecordWriter
}

// RecordFilter selects and pages money records. Zero-valued fields are
// omitted from the request. Page starts at 1; Limit is clamped to 100 by
// the gateway.
type RecordFilter struct {
	CategoryID int64
	GenreID    int64
	Mode       core.Mode
	Order      string
	StartDate  core.Date
	EndDate    core.Date
	Page       int
	Limit      int
}

// RecordPage is one page of records plus the server-side request timestamp.
type RecordPage struct {
	Records     []core.MoneyRecord
	RequestedAt int64
}

type PaymentParams struct {
	CategoryID    int64
	GenreID       int64
	Amount        int64
	Date          core.Date
	FromAccountID int64
	Comment       string
	Name          string
	Place         string
}

type IncomeParams struct {
	CategoryID  int64
	Amount      int64
	Date        core.Date
	ToAccountID int64
	Comment     string
	Place       string
}

type TransferParams struct {
	Amount        int64
	Date          core.Date
	FromAccountID int64
	ToAccountID   int64
	Comment       string
}

// UpdateParams carries the mutable fields of an existing record. Amount and
// Date are mandatory on the wire; the rest are sent only when non-zero.
type UpdateParams struct {
	Amount        int64
	Date          core.Date
	CategoryID    int64
	GenreID       int64
	FromAccountID int64
	ToAccountID   int64
	Comment       string
}
