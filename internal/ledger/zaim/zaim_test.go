package zaim

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"zaim/internal/core"
	"zaim/internal/ledger"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{
		ConsumerKey:       "ck",
		ConsumerSecret:    "cs",
		AccessToken:       "at",
		AccessTokenSecret: "as",
		BaseURL:           srv.URL,
		HTTPClient:        srv.Client(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNewRequiresAllCredentials(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"all empty", Config{}},
		{"missing consumer secret", Config{ConsumerKey: "ck", AccessToken: "at", AccessTokenSecret: "as"}},
		{"missing access token", Config{ConsumerKey: "ck", ConsumerSecret: "cs", AccessTokenSecret: "as"}},
		{"missing access secret", Config{ConsumerKey: "ck", ConsumerSecret: "cs", AccessToken: "at"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); !errors.Is(err, core.ErrCredentialsMissing) {
				t.Errorf("New() error = %v, want ErrCredentialsMissing", err)
			}
		})
	}
}

func TestListRecordsQueryParams(t *testing.T) {
	var gotQuery map[string]string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/home/money" {
			t.Errorf("got %s %s, want GET /home/money", r.Method, r.URL.Path)
		}
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		fmt.Fprint(w, `{"money":[{"id":7,"mode":"payment","amount":500,"date":"2025-05-01","from_account_id":1}],"requested":1746057600}`)
	}))

	page, err := c.ListRecords(context.Background(), ledger.RecordFilter{
		StartDate: core.NewDate(2024, 6, 1),
		EndDate:   core.NewDate(2025, 6, 1),
		Page:      3,
		Limit:     500,
	})
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]string{
		"mapping":    "1",
		"order":      "date",
		"page":       "3",
		"limit":      "100",
		"start_date": "2024-06-01",
		"end_date":   "2025-06-01",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("query[%s] = %q, want %q", k, gotQuery[k], v)
		}
	}

	if len(page.Records) != 1 || page.Records[0].ID != 7 {
		t.Errorf("records = %+v, want one record with id 7", page.Records)
	}
	if page.RequestedAt != 1746057600 {
		t.Errorf("RequestedAt = %d", page.RequestedAt)
	}
}

func TestListRecordsDefaults(t *testing.T) {
	var got map[string]string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = map[string]string{
			"page":  r.URL.Query().Get("page"),
			"limit": r.URL.Query().Get("limit"),
			"order": r.URL.Query().Get("order"),
		}
		fmt.Fprint(w, `{"money":[],"requested":0}`)
	}))

	if _, err := c.ListRecords(context.Background(), ledger.RecordFilter{}); err != nil {
		t.Fatal(err)
	}
	if got["page"] != "1" || got["limit"] != "20" || got["order"] != "date" {
		t.Errorf("defaults = %v, want page=1 limit=20 order=date", got)
	}
}

func TestCreatePaymentFormFields(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/home/money/payment" {
			t.Errorf("got %s %s, want POST /home/money/payment", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		want := map[string]string{
			"mapping":         "1",
			"category_id":     "201",
			"genre_id":        "2011",
			"amount":          "20000",
			"date":            "2025-06-01",
			"from_account_id": "1",
			"comment":         "adjust",
		}
		for k, v := range want {
			if r.PostForm.Get(k) != v {
				t.Errorf("form[%s] = %q, want %q", k, r.PostForm.Get(k), v)
			}
		}
		if r.PostForm.Has("name") || r.PostForm.Has("place") {
			t.Error("empty text fields must be omitted")
		}
		fmt.Fprint(w, `{"money":{"id":99},"requested":1}`)
	}))

	rec, err := c.CreatePayment(context.Background(), ledger.PaymentParams{
		CategoryID:    201,
		GenreID:       2011,
		Amount:        20000,
		Date:          core.NewDate(2025, 6, 1),
		FromAccountID: 1,
		Comment:       "adjust",
	})
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID != 99 || rec.Mode != core.ModePayment || rec.Amount != 20000 {
		t.Errorf("record = %+v, want id 99 payment of 20000", rec)
	}
}

func TestCreateIncomeTruncatesComment(t *testing.T) {
	long := strings.Repeat("調", 150)
	var sent string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		sent = r.PostForm.Get("comment")
		fmt.Fprint(w, `{"money":{"id":1},"requested":1}`)
	}))

	rec, err := c.CreateIncome(context.Background(), ledger.IncomeParams{
		CategoryID:  102,
		Amount:      100,
		Date:        core.NewDate(2025, 6, 1),
		ToAccountID: 1,
		Comment:     long,
	})
	if err != nil {
		t.Fatal(err)
	}
	if n := utf8.RuneCountInString(sent); n != 100 {
		t.Errorf("sent comment has %d runes, want 100", n)
	}
	if !utf8.ValidString(sent) {
		t.Error("truncation must not split a multibyte character")
	}
	if utf8.RuneCountInString(rec.Comment) != 100 {
		t.Errorf("returned record comment has %d runes, want 100", utf8.RuneCountInString(rec.Comment))
	}
}

func TestCreateTransfer(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/home/money/transfer" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if r.PostForm.Get("from_account_id") != "1" || r.PostForm.Get("to_account_id") != "2" {
			t.Errorf("accounts = %s -> %s", r.PostForm.Get("from_account_id"), r.PostForm.Get("to_account_id"))
		}
		fmt.Fprint(w, `{"money":{"id":5},"requested":1}`)
	}))

	rec, err := c.CreateTransfer(context.Background(), ledger.TransferParams{
		Amount:        3000,
		Date:          core.NewDate(2025, 6, 1),
		FromAccountID: 1,
		ToAccountID:   2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Mode != core.ModeTransfer || rec.ID != 5 {
		t.Errorf("record = %+v", rec)
	}
}

func TestUpdateAndDeletePaths(t *testing.T) {
	var gotMethod, gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		fmt.Fprint(w, `{"money":{"id":42},"requested":1}`)
	}))
	ctx := context.Background()

	if _, err := c.UpdateRecord(ctx, 42, core.ModeIncome, ledger.UpdateParams{
		Amount: 100, Date: core.NewDate(2025, 6, 1),
	}); err != nil {
		t.Fatal(err)
	}
	if gotMethod != http.MethodPut || gotPath != "/home/money/income/42" {
		t.Errorf("update hit %s %s, want PUT /home/money/income/42", gotMethod, gotPath)
	}

	if _, err := c.DeleteRecord(ctx, 42, core.ModePayment); err != nil {
		t.Fatal(err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/home/money/payment/42" {
		t.Errorf("delete hit %s %s, want DELETE /home/money/payment/42", gotMethod, gotPath)
	}
}

func TestInvalidRecordTypeNeverHitsNetwork(t *testing.T) {
	requests := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `{"money":{"id":1},"requested":1}`)
	}))
	ctx := context.Background()

	if _, err := c.UpdateRecord(ctx, 1, "refund", ledger.UpdateParams{}); !errors.Is(err, core.ErrInvalidRecordType) {
		t.Errorf("UpdateRecord error = %v, want ErrInvalidRecordType", err)
	}
	if _, err := c.DeleteRecord(ctx, 1, ""); !errors.Is(err, core.ErrInvalidRecordType) {
		t.Errorf("DeleteRecord error = %v, want ErrInvalidRecordType", err)
	}
	if requests != 0 {
		t.Errorf("server saw %d requests, want 0", requests)
	}
}

func TestNon2xxBecomesRequestError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
	}))

	_, err := c.ListAccounts(context.Background())
	var reqErr *ledger.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error = %v, want *ledger.RequestError", err)
	}
	if reqErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", reqErr.StatusCode)
	}
	if !strings.Contains(reqErr.Error(), "unauthorized") {
		t.Errorf("Error() = %q, want body snippet included", reqErr.Error())
	}
}

func TestMalformedBodyBecomesRequestError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>not json</html>`)
	}))

	_, err := c.ListCategories(context.Background())
	var reqErr *ledger.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error = %v, want *ledger.RequestError", err)
	}
}

func TestVerifyUser(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/home/user/verify" {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"me":{"id":12,"login":"taro","name":"Taro","input_count":345,"currency_code":"JPY"},"requested":1}`)
	}))

	user, err := c.VerifyUser(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if user.ID != 12 || user.Name != "Taro" || user.CurrencyCode != "JPY" {
		t.Errorf("user = %+v", user)
	}
}

func TestMasterDataEndpoints(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("mapping") != "1" {
			t.Errorf("%s missing mapping=1", r.URL.Path)
		}
		switch r.URL.Path {
		case "/home/account":
			fmt.Fprint(w, `{"accounts":[{"id":1,"name":"Wallet","active":1}],"requested":1}`)
		case "/home/category":
			fmt.Fprint(w, `{"categories":[{"id":101,"name":"Salary","mode":"income","active":1}],"requested":1}`)
		case "/home/genre":
			fmt.Fprint(w, `{"genres":[{"id":1011,"name":"Base","category_id":101,"active":1}],"requested":1}`)
		default:
			http.NotFound(w, r)
		}
	}))
	ctx := context.Background()

	accounts, err := c.ListAccounts(ctx)
	if err != nil || len(accounts) != 1 || accounts[0].Name != "Wallet" {
		t.Errorf("accounts = %+v, err = %v", accounts, err)
	}
	categories, err := c.ListCategories(ctx)
	if err != nil || len(categories) != 1 || categories[0].Mode != core.ModeIncome {
		t.Errorf("categories = %+v, err = %v", categories, err)
	}
	genres, err := c.ListGenres(ctx)
	if err != nil || len(genres) != 1 || genres[0].CategoryID != 101 {
		t.Errorf("genres = %+v, err = %v", genres, err)
	}
}
