package core

import (
	"errors"
	"fmt"
	"time"
)

const (
	ModePayment  Mode = "payment"
	ModeIncome   Mode = "income"
	ModeTransfer Mode = "transfer"
)

type (
	// Mode is the kind of a money record.
	Mode string

	// Date is a calendar date as the remote API exchanges it ("2006-01-02").
	Date struct {
		time.Time
	}

	// Account is a remote asset account. Active follows the API encoding:
	// 1 for active, -1 for inactive.
	Account struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Active int    `json:"active"`
	}

	// MoneyRecord is a single ledger entry. Amounts are positive integers in
	// the minor currency unit; the sign of the balance effect comes from Mode.
	MoneyRecord struct {
		ID            int64  `json:"id"`
		Mode          Mode   `json:"mode"`
		Amount        int64  `json:"amount"`
		Date          Date   `json:"date"`
		CategoryID    int64  `json:"category_id,omitempty"`
		GenreID       int64  `json:"genre_id,omitempty"`
		FromAccountID int64  `json:"from_account_id,omitempty"`
		ToAccountID   int64  `json:"to_account_id,omitempty"`
		Comment       string `json:"comment,omitempty"`
		Name          string `json:"name,omitempty"`
		Place         string `json:"place,omitempty"`
	}

	// Category is master data tagging payments or incomes.
	Category struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Mode   Mode   `json:"mode"`
		Active int    `json:"active"`
	}

	// Genre is a sub-category; CategoryID references its parent Category.
	Genre struct {
		ID         int64  `json:"id"`
		Name       string `json:"name"`
		CategoryID int64  `json:"category_id"`
		Active     int    `json:"active"`
	}

	// BalanceSnapshot is the net effect of the records inside the lookback
	// window. It assumes a zero opening balance at the start of the window,
	// so it approximates the true balance for accounts with older history.
	BalanceSnapshot struct {
		AccountID        int64 `json:"account_id"`
		NetChange        int64 `json:"net_change"`
		TransactionCount int   `json:"transaction_count"`
	}

	// AccountBalance is a per-account line of a balance listing.
	AccountBalance struct {
		ID               int64  `json:"id"`
		Name             string `json:"name"`
		Balance          int64  `json:"balance"`
		TransactionCount int    `json:"transaction_count"`
	}

	// AdjustmentResult reports the outcome of one reconciliation call.
	AdjustmentResult struct {
		AccountName      string `json:"account_name"`
		AccountID        int64  `json:"account_id"`
		CurrentBalance   int64  `json:"current_balance"`
		TargetBalance    int64  `json:"target_balance"`
		AdjustmentNeeded int64  `json:"adjustment_needed"`
		TransactionCount int    `json:"transaction_count"`
		Action           Action `json:"action"`
		Comment          string `json:"comment,omitempty"`
		PlannedAction    string `json:"planned_action,omitempty"`
		TransactionID    int64  `json:"transaction_id,omitempty"`
		TransactionType  Mode   `json:"transaction_type,omitempty"`
		Err              string `json:"error,omitempty"`
	}

	// Action is the terminal state of a reconciliation call.
	Action string
)

const (
	ActionNoChange  Action = "no_change"
	ActionDryRun    Action = "dry_run"
	ActionCompleted Action = "completed"
	ActionError     Action = "error"
)

var (
	ErrCredentialsMissing  = errors.New("oauth credentials are required")
	ErrInvalidRecordType   = errors.New("record type must be payment, income, or transfer")
	ErrAccountNotFound     = errors.New("account not found")
	ErrNoSuitableCategory  = errors.New("no suitable adjustment category")
	ErrNoSuitableGenre     = errors.New("no suitable adjustment genre")
)

// Valid reports whether m is one of the three record modes.
func (m Mode) Valid() bool {
	switch m {
	case ModePayment, ModeIncome, ModeTransfer:
		return true
	}
	return false
}

// IsActive reports whether the account is active on the remote service.
func (a Account) IsActive() bool {
	return a.Active == 1
}

const dateLayout = "2006-01-02"

// NewDate creates a Date for the given year, month, and day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// AddDays returns the date n days later (negative n for earlier).
func (d Date) AddDays(n int) Date {
	return DateOf(d.AddDate(0, 0, n))
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := unquote(b, &s); err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	// The API sometimes appends a time part; only the date matters here.
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func unquote(b []byte, s *string) error {
	if len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"' {
		*s = string(b[1 : len(b)-1])
		return nil
	}
	return fmt.Errorf("invalid date literal %s", b)
}
