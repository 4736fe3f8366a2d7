package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/metrics"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/services"
	"fintrack/internal/storage"
	"fintrack/internal/storage/memory"
	"fintrack/internal/store"
)

// Wednesday
var testNow = time.Date(2025, 10, 15, 14, 30, 0, 0, time.UTC)

type flakyPersister struct {
	storage.Persister
	fail bool
}

func (p *flakyPersister) Save(ctx context.Context, ts []core.Transaction) error {
	if p.fail {
		return errors.New("disk full")
	}
	return p.Persister.Save(ctx, ts)
}

type testEnv struct {
	srv       *Server
	store     *store.Store
	persister *flakyPersister
	metrics   *metrics.Recorder
	clock     time.Time
}

func newTestEnv(t *testing.T, load bool) *testEnv {
	t.Helper()
	env := &testEnv{
		persister: &flakyPersister{Persister: storage.NewPersister(memory.New())},
		metrics:   metrics.New(),
		clock:     testNow,
	}
	clock := func() time.Time { return env.clock }
	env.store = store.New(env.persister, store.WithClock(clock))
	if load {
		if err := env.store.Load(context.Background()); err != nil {
			t.Fatalf("load: %v", err)
		}
	}
	env.srv = NewServer(":0", env.store, Options{
		Metrics:        env.metrics,
		Cache:          cache.NewLRUCache[services.Dashboard](8, time.Minute),
		Clock:          clock,
		Location:       time.UTC,
		CurrencySymbol: "$",
		TrendMonths:    6,
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	e.srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func (e *testEnv) add(t *testing.T, kind core.Kind, cents int64, category string, at time.Time) core.Transaction {
	t.Helper()
	prev := e.clock
	e.clock = at
	defer func() { e.clock = prev }()
	tx, err := e.store.Add(context.Background(), kind, core.Cents(cents), category, "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	return tx
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, false)
	rr := env.do(t, http.MethodGet, "/healthz", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"ok"`) {
		t.Fatalf("healthz = %d %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("security headers missing")
	}
}

func TestAPIUnavailableBeforeLoad(t *testing.T) {
	env := newTestEnv(t, false)
	for _, path := range []string{"/api/transactions", "/api/dashboard", "/api/summary"} {
		if rr := env.do(t, http.MethodGet, path, ""); rr.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s status=%d, want 503", path, rr.Code)
		}
	}
}

func TestCreateTransaction(t *testing.T) {
	env := newTestEnv(t, true)

	rr := env.do(t, http.MethodPost, "/api/transactions",
		`{"type":"expense","amount":"12.50","category":"Food & Dining","description":"  lunch  "}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	got := decode[transactionJSON](t, rr)
	if got.Type != "expense" || got.Amount.Cents != 1250 || got.Amount.Formatted != "$12.50" || got.Description != "lunch" {
		t.Fatalf("unexpected response %+v", got)
	}
	if got.Date != "2025-10-15T14:30:00.000Z" {
		t.Fatalf("unexpected date %s", got.Date)
	}
	if len(env.store.List()) != 1 {
		t.Fatal("transaction not stored")
	}

	rr = env.do(t, http.MethodPost, "/api/transactions", `{"type":"income","amount":1000,"category":"Salary"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("numeric amount status=%d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	env := newTestEnv(t, true)

	tests := []struct {
		name  string
		body  string
		code  int
		field string
	}{
		{"bad type", `{"type":"loan","amount":1,"category":"Salary"}`, http.StatusUnprocessableEntity, "type"},
		{"zero amount", `{"type":"income","amount":0,"category":"Salary"}`, http.StatusUnprocessableEntity, "amount"},
		{"negative amount", `{"type":"income","amount":-5,"category":"Salary"}`, http.StatusUnprocessableEntity, "amount"},
		{"missing amount", `{"type":"income","category":"Salary"}`, http.StatusUnprocessableEntity, "amount"},
		{"amount over cap", `{"type":"income","amount":10000000000000.01,"category":"Salary"}`, http.StatusUnprocessableEntity, "amount"},
		{"empty category", `{"type":"income","amount":1,"category":" "}`, http.StatusUnprocessableEntity, "category"},
		{"wrong vocabulary", `{"type":"income","amount":1,"category":"Health"}`, http.StatusUnprocessableEntity, "category"},
		{"long description", `{"type":"income","amount":1,"category":"Salary","description":"` + strings.Repeat("x", 101) + `"}`, http.StatusUnprocessableEntity, "description"},
		{"malformed", `{"type":`, http.StatusBadRequest, ""},
		{"unknown field", `{"type":"income","amount":1,"category":"Salary","date":"2020-01-01"}`, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/api/transactions", tt.body)
			if rr.Code != tt.code {
				t.Fatalf("status=%d want %d body=%s", rr.Code, tt.code, rr.Body.String())
			}
			if tt.field != "" {
				body := decode[errorJSON](t, rr)
				if body.Error.Field != tt.field {
					t.Fatalf("field=%q want %q", body.Error.Field, tt.field)
				}
			}
		})
	}
	if len(env.store.List()) != 0 {
		t.Fatal("rejected requests must not change the store")
	}
}

func TestDeleteTransaction(t *testing.T) {
	env := newTestEnv(t, true)
	tx := env.add(t, core.Expense, 500, "Other", testNow)

	if rr := env.do(t, http.MethodDelete, "/api/transactions/"+tx.ID, ""); rr.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", rr.Code)
	}
	if len(env.store.List()) != 0 {
		t.Fatal("transaction still present")
	}
	if rr := env.do(t, http.MethodDelete, "/api/transactions/unknown", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("unknown id status=%d, want 204", rr.Code)
	}
}

func TestListAndSummaryFilters(t *testing.T) {
	env := newTestEnv(t, true)
	env.add(t, core.Expense, 9900, "Shopping", testNow.AddDate(0, -1, 0))
	env.add(t, core.Expense, 5000, "Food & Dining", testNow.AddDate(0, 0, -1))
	env.add(t, core.Income, 100000, "Salary", testNow)
	env.add(t, core.Expense, 20000, "Food & Dining", testNow)

	rr := env.do(t, http.MethodGet, "/api/transactions?range=today", "")
	list := decode[struct {
		Transactions []transactionJSON `json:"transactions"`
	}](t, rr)
	if len(list.Transactions) != 2 {
		t.Fatalf("today: got %d transactions", len(list.Transactions))
	}

	rr = env.do(t, http.MethodGet, "/api/transactions?range=month&category=Food+%26+Dining", "")
	list = decode[struct {
		Transactions []transactionJSON `json:"transactions"`
	}](t, rr)
	if len(list.Transactions) != 2 || list.Transactions[0].Amount.Cents != 20000 {
		t.Fatalf("month+category: %+v", list.Transactions)
	}

	rr = env.do(t, http.MethodGet, "/api/summary?range=month", "")
	sum := decode[struct {
		Range  rangeJSON  `json:"range"`
		Totals totalsJSON `json:"totals"`
	}](t, rr)
	if sum.Range.Label != "This Month" || sum.Totals.Balance.Cents != 75000 || sum.Totals.Balance.Formatted != "$750.00" {
		t.Fatalf("unexpected summary %+v", sum)
	}

	if rr := env.do(t, http.MethodGet, "/api/summary?range=year", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown range status=%d", rr.Code)
	}
}

func TestTrendBreakdownCategories(t *testing.T) {
	env := newTestEnv(t, true)
	env.add(t, core.Expense, 20000, "Food & Dining", testNow)
	env.add(t, core.Expense, 7000, "Transportation", testNow)
	env.add(t, core.Income, 40000, "Freelance", testNow.AddDate(0, -2, 0))

	rr := env.do(t, http.MethodGet, "/api/trend?months=3", "")
	trend := decode[struct {
		Months []monthJSON `json:"months"`
	}](t, rr)
	if len(trend.Months) != 3 || trend.Months[0].Label != "Aug" || trend.Months[0].Income.Cents != 40000 {
		t.Fatalf("unexpected trend %+v", trend.Months)
	}
	if rr := env.do(t, http.MethodGet, "/api/trend?months=0", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("months=0 status=%d", rr.Code)
	}
	rr = env.do(t, http.MethodGet, "/api/trend", "")
	trend = decode[struct {
		Months []monthJSON `json:"months"`
	}](t, rr)
	if len(trend.Months) != 6 {
		t.Fatalf("default trend has %d months", len(trend.Months))
	}

	rr = env.do(t, http.MethodGet, "/api/breakdown", "")
	br := decode[struct {
		Categories []categoryAmountJSON `json:"categories"`
	}](t, rr)
	if len(br.Categories) != 2 || br.Categories[0].Name != "Food & Dining" {
		t.Fatalf("unexpected breakdown %+v", br.Categories)
	}

	rr = env.do(t, http.MethodGet, "/api/categories", "")
	cats := decode[struct {
		Categories []string `json:"categories"`
	}](t, rr)
	if len(cats.Categories) != 3 {
		t.Fatalf("unexpected categories %v", cats.Categories)
	}

	rr = env.do(t, http.MethodGet, "/api/categories/income", "")
	vocab := decode[struct {
		Categories []string `json:"categories"`
	}](t, rr)
	if len(vocab.Categories) != 5 || vocab.Categories[0] != "Salary" {
		t.Fatalf("unexpected vocabulary %v", vocab.Categories)
	}
	if rr := env.do(t, http.MethodGet, "/api/categories/transfer", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown vocabulary status=%d", rr.Code)
	}
}

func TestDashboardIsCachedPerRevision(t *testing.T) {
	env := newTestEnv(t, true)
	env.add(t, core.Income, 100000, "Salary", testNow)

	first := decode[dashboardJSON](t, env.do(t, http.MethodGet, "/api/dashboard?range=week", ""))
	second := decode[dashboardJSON](t, env.do(t, http.MethodGet, "/api/dashboard?range=week", ""))
	if first.Totals.Income.Cents != 100000 || second.Totals.Income.Cents != 100000 {
		t.Fatalf("unexpected totals %+v", first.Totals)
	}
	if first.Range.Label != "This Week" || len(first.Trend) != 6 {
		t.Fatalf("unexpected dashboard %+v", first)
	}

	env.add(t, core.Expense, 2500, "Health", testNow)
	third := decode[dashboardJSON](t, env.do(t, http.MethodGet, "/api/dashboard?range=week", ""))
	if third.Totals.Expenses.Cents != 2500 || len(third.Transactions) != 2 {
		t.Fatalf("cache served stale data after a mutation: %+v", third.Totals)
	}

	rr := env.do(t, http.MethodGet, "/metrics", "")
	if !strings.Contains(rr.Body.String(), `fintrack_cache_lookups_total{result="hit"} 1`) {
		t.Fatalf("expected one cache hit in metrics:\n%s", rr.Body.String())
	}
}

func TestPersistenceWarningHeader(t *testing.T) {
	env := newTestEnv(t, true)
	env.persister.fail = true

	rr := env.do(t, http.MethodPost, "/api/transactions", `{"type":"income","amount":5,"category":"Gifts"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status=%d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get(PersistenceWarningHeader), "disk full") {
		t.Fatalf("missing warning header, got %q", rr.Header().Get(PersistenceWarningHeader))
	}
	if rr := env.do(t, http.MethodGet, "/api/transactions", ""); rr.Header().Get(PersistenceWarningHeader) == "" {
		t.Fatal("warning should persist until a save succeeds")
	}

	env.persister.fail = false
	tx := env.store.List()[0]
	rr = env.do(t, http.MethodDelete, "/api/transactions/"+tx.ID, "")
	if rr.Header().Get(PersistenceWarningHeader) != "" {
		t.Fatal("warning should clear after a successful save")
	}
}

func TestWriteRateLimit(t *testing.T) {
	env := newTestEnv(t, true)
	env.srv = NewServer(":0", env.store, Options{
		Clock:        func() time.Time { return env.clock },
		Location:     time.UTC,
		WriteLimiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: 1}),
	})

	body := `{"type":"expense","amount":1,"category":"Other"}`
	if rr := env.do(t, http.MethodPost, "/api/transactions", body); rr.Code != http.StatusCreated {
		t.Fatalf("first create status=%d", rr.Code)
	}
	rr := env.do(t, http.MethodPost, "/api/transactions", body)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second create status=%d, want 429", rr.Code)
	}
	if decode[errorJSON](t, rr).Error.Message == "" {
		t.Fatal("expected a JSON error body")
	}
	if rr := env.do(t, http.MethodGet, "/api/transactions", ""); rr.Code != http.StatusOK {
		t.Fatalf("reads must not be limited, status=%d", rr.Code)
	}
}

func TestWriteRateLimitIgnoresSourcePort(t *testing.T) {
	env := newTestEnv(t, true)
	env.srv = NewServer(":0", env.store, Options{
		Clock:        func() time.Time { return env.clock },
		Location:     time.UTC,
		WriteLimiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: 1}),
	})

	body := `{"type":"expense","amount":1,"category":"Other"}`
	var codes []int
	for _, addr := range []string{"10.0.0.7:40001", "10.0.0.7:40002", "10.0.0.7:40003"} {
		req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		env.srv.Handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	want := []int{http.StatusCreated, http.StatusTooManyRequests, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("status codes = %v, want %v", codes, want)
		}
	}
	if n := len(env.store.List()); n != 1 {
		t.Fatalf("stored %d transactions, want 1", n)
	}
}
