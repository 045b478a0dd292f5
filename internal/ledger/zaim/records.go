package zaim

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"zaim/internal/core"
	"zaim/internal/ledger"
)

// ListRecords fetches one page of money records. Limit defaults to 20 and is
// clamped to 100 before transmission; Page defaults to 1; Order defaults to
// "date".
func (c *Client) ListRecords(ctx context.Context, f ledger.RecordFilter) (ledger.RecordPage, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	order := f.Order
	if order == "" {
		order = "date"
	}

	q := url.Values{}
	q.Set("mapping", "1")
	q.Set("order", order)
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if f.CategoryID != 0 {
		q.Set("category_id", strconv.FormatInt(f.CategoryID, 10))
	}
	if f.GenreID != 0 {
		q.Set("genre_id", strconv.FormatInt(f.GenreID, 10))
	}
	if f.Mode != "" {
		q.Set("mode", string(f.Mode))
	}
	if !f.StartDate.IsZero() {
		q.Set("start_date", f.StartDate.String())
	}
	if !f.EndDate.IsZero() {
		q.Set("end_date", f.EndDate.String())
	}

	var out struct {
		Money     []core.MoneyRecord `json:"money"`
		Requested int64              `json:"requested"`
	}
	if err := c.do(ctx, http.MethodGet, "/home/money", q, nil, &out); err != nil {
		return ledger.RecordPage{}, err
	}
	return ledger.RecordPage{Records: out.Money, RequestedAt: out.Requested}, nil
}

// createResponse is what every mutating money endpoint returns: the record id
// plus a server timestamp.
type createResponse struct {
	Money struct {
		ID int64 `json:"id"`
	} `json:"money"`
	Requested int64 `json:"requested"`
}

func (c *Client) CreatePayment(ctx context.Context, p ledger.PaymentParams) (core.MoneyRecord, error) {
	form := url.Values{}
	form.Set("mapping", "1")
	form.Set("category_id", strconv.FormatInt(p.CategoryID, 10))
	form.Set("genre_id", strconv.FormatInt(p.GenreID, 10))
	form.Set("amount", strconv.FormatInt(p.Amount, 10))
	form.Set("date", p.Date.String())
	if p.FromAccountID != 0 {
		form.Set("from_account_id", strconv.FormatInt(p.FromAccountID, 10))
	}
	setText(form, "comment", p.Comment)
	setText(form, "name", p.Name)
	setText(form, "place", p.Place)

	var out createResponse
	if err := c.do(ctx, http.MethodPost, "/home/money/payment", nil, form, &out); err != nil {
		return core.MoneyRecord{}, err
	}
	return core.MoneyRecord{
		ID:            out.Money.ID,
		Mode:          core.ModePayment,
		Amount:        p.Amount,
		Date:          p.Date,
		CategoryID:    p.CategoryID,
		GenreID:       p.GenreID,
		FromAccountID: p.FromAccountID,
		Comment:       truncateText(p.Comment),
		Name:          truncateText(p.Name),
		Place:         truncateText(p.Place),
	}, nil
}

func (c *Client) CreateIncome(ctx context.Context, p ledger.IncomeParams) (core.MoneyRecord, error) {
	form := url.Values{}
	form.Set("mapping", "1")
	form.Set("category_id", strconv.FormatInt(p.CategoryID, 10))
	form.Set("amount", strconv.FormatInt(p.Amount, 10))
	form.Set("date", p.Date.String())
	if p.ToAccountID != 0 {
		form.Set("to_account_id", strconv.FormatInt(p.ToAccountID, 10))
	}
	setText(form, "comment", p.Comment)
	setText(form, "place", p.Place)

	var out createResponse
	if err := c.do(ctx, http.MethodPost, "/home/money/income", nil, form, &out); err != nil {
		return core.MoneyRecord{}, err
	}
	return core.MoneyRecord{
		ID:          out.Money.ID,
		Mode:        core.ModeIncome,
		Amount:      p.Amount,
		Date:        p.Date,
		CategoryID:  p.CategoryID,
		ToAccountID: p.ToAccountID,
		Comment:     truncateText(p.Comment),
		Place:       truncateText(p.Place),
	}, nil
}

func (c *Client) CreateTransfer(ctx context.Context, p ledger.TransferParams) (core.MoneyRecord, error) {
	form := url.Values{}
	form.Set("mapping", "1")
	form.Set("amount", strconv.FormatInt(p.Amount, 10))
	form.Set("date", p.Date.String())
	form.Set("from_account_id", strconv.FormatInt(p.FromAccountID, 10))
	form.Set("to_account_id", strconv.FormatInt(p.ToAccountID, 10))
	setText(form, "comment", p.Comment)

	var out createResponse
	if err := c.do(ctx, http.MethodPost, "/home/money/transfer", nil, form, &out); err != nil {
		return core.MoneyRecord{}, err
	}
	return core.MoneyRecord{
		ID:            out.Money.ID,
		Mode:          core.ModeTransfer,
		Amount:        p.Amount,
		Date:          p.Date,
		FromAccountID: p.FromAccountID,
		ToAccountID:   p.ToAccountID,
		Comment:       truncateText(p.Comment),
	}, nil
}

// UpdateRecord mutates an existing record. The record type is validated
// before any network I/O.
func (c *Client) UpdateRecord(ctx context.Context, id int64, recordType core.Mode, p ledger.UpdateParams) (core.MoneyRecord, error) {
	if !recordType.Valid() {
		return core.MoneyRecord{}, fmt.Errorf("%w: got %q", core.ErrInvalidRecordType, string(recordType))
	}

	form := url.Values{}
	form.Set("mapping", "1")
	form.Set("amount", strconv.FormatInt(p.Amount, 10))
	form.Set("date", p.Date.String())
	if p.CategoryID != 0 {
		form.Set("category_id", strconv.FormatInt(p.CategoryID, 10))
	}
	if p.GenreID != 0 {
		form.Set("genre_id", strconv.FormatInt(p.GenreID, 10))
	}
	if p.FromAccountID != 0 {
		form.Set("from_account_id", strconv.FormatInt(p.FromAccountID, 10))
	}
	if p.ToAccountID != 0 {
		form.Set("to_account_id", strconv.FormatInt(p.ToAccountID, 10))
	}
	setText(form, "comment", p.Comment)

	endpoint := fmt.Sprintf("/home/money/%s/%d", recordType, id)
	var out createResponse
	if err := c.do(ctx, http.MethodPut, endpoint, nil, form, &out); err != nil {
		return core.MoneyRecord{}, err
	}
	return core.MoneyRecord{
		ID:            out.Money.ID,
		Mode:          recordType,
		Amount:        p.Amount,
		Date:          p.Date,
		CategoryID:    p.CategoryID,
		GenreID:       p.GenreID,
		FromAccountID: p.FromAccountID,
		ToAccountID:   p.ToAccountID,
		Comment:       truncateText(p.Comment),
	}, nil
}

// DeleteRecord removes a record. The record type is validated before any
// network I/O.
func (c *Client) DeleteRecord(ctx context.Context, id int64, recordType core.Mode) (core.MoneyRecord, error) {
	if !recordType.Valid() {
		return core.MoneyRecord{}, fmt.Errorf("%w: got %q", core.ErrInvalidRecordType, string(recordType))
	}

	endpoint := fmt.Sprintf("/home/money/%s/%d", recordType, id)
	var out createResponse
	if err := c.do(ctx, http.MethodDelete, endpoint, nil, nil, &out); err != nil {
		return core.MoneyRecord{}, err
	}
	return core.MoneyRecord{ID: out.Money.ID, Mode: recordType}, nil
}

// setText adds a free-text form field, truncated to the remote limit.
// Empty values are omitted.
func setText(form url.Values, key, value string) {
	if value == "" {
		return
	}
	form.Set(key, truncateText(value))
}
