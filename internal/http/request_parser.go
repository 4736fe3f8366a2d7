package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/filter"
	"fintrack/internal/services"
)

// maxBodyBytes bounds POST bodies. A transaction is a few hundred bytes.
const maxBodyBytes = 16 << 10

// parseQuery extracts the range and category selectors from the query
// string. The category is matched exactly, so it is not trimmed.
func (s *Server) parseQuery(r *http.Request) (services.Query, error) {
	q := r.URL.Query()
	rng, err := filter.ParseRange(q.Get("range"))
	if err != nil {
		return services.Query{}, err
	}
	return services.Query{
		Range:    rng,
		Category: q.Get("category"),
		Now:      s.now(),
	}, nil
}

// parseMonths reads the optional months parameter. Missing means the
// configured default.
func parseMonths(r *http.Request) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get("months"))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 120 {
		return 0, fmt.Errorf("invalid months %q: must be a number between 1 and 120", v)
	}
	return n, nil
}

// createRequest is the body of POST /api/transactions. Amount may be a
// JSON number or a decimal string.
type createRequest struct {
	Type        string           `json:"type"`
	Amount      *decimal.Decimal `json:"amount"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
}

type createInput struct {
	Kind        core.Kind
	Amount      core.Money
	Category    string
	Description string
}

// parseCreateRequest decodes and checks a create body. Errors returned as
// *core.ValidationError map to 422; anything else is a malformed request.
func parseCreateRequest(r *http.Request) (createInput, error) {
	var req createRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return createInput{}, fmt.Errorf("decode request body: %w", err)
	}

	kind, err := core.ParseKind(req.Type)
	if err != nil {
		return createInput{}, err
	}

	if req.Amount == nil {
		return createInput{}, &core.ValidationError{Field: "amount", Err: core.ErrInvalidAmount}
	}
	amount, err := core.MoneyFromDecimal(*req.Amount)
	if err != nil {
		return createInput{}, &core.ValidationError{Field: "amount", Err: err}
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		return createInput{}, &core.ValidationError{Field: "category", Err: core.ErrEmptyCategory}
	}
	if err := core.CheckCategory(kind, category); err != nil {
		return createInput{}, err
	}

	return createInput{
		Kind:        kind,
		Amount:      amount,
		Category:    category,
		Description: req.Description,
	}, nil
}
