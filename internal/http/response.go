package http

import (
	"encoding/json"
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

// amountJSON carries an amount both as an exact decimal number and as a
// display string in the configured currency.
type amountJSON struct {
	Value     json.Number `json:"value"`
	Cents     int64       `json:"cents"`
	Formatted string      `json:"formatted"`
}

type transactionJSON struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Amount      amountJSON `json:"amount"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Date        string     `json:"date"`
}

type totalsJSON struct {
	Income   amountJSON `json:"income"`
	Expenses amountJSON `json:"expenses"`
	Balance  amountJSON `json:"balance"`
}

type monthJSON struct {
	Year     int        `json:"year"`
	Month    int        `json:"month"`
	Label    string     `json:"label"`
	Income   amountJSON `json:"income"`
	Expenses amountJSON `json:"expenses"`
}

type categoryAmountJSON struct {
	Name   string     `json:"name"`
	Amount amountJSON `json:"amount"`
}

type rangeJSON struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type dashboardJSON struct {
	Range        rangeJSON            `json:"range"`
	Category     string               `json:"category"`
	Totals       totalsJSON           `json:"totals"`
	Transactions []transactionJSON    `json:"transactions"`
	Categories   []string             `json:"categories"`
	Trend        []monthJSON          `json:"trend"`
	Breakdown    []categoryAmountJSON `json:"breakdown"`
	GeneratedAt  string               `json:"generated_at"`
}

func (s *Server) amount(m core.Money) amountJSON {
	return amountJSON{
		Value:     json.Number(m.Decimal().String()),
		Cents:     m.Cents,
		Formatted: m.Format(s.currency),
	}
}

func (s *Server) transaction(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          t.ID,
		Type:        t.Kind.String(),
		Amount:      s.amount(t.Amount),
		Category:    t.Category,
		Description: t.Description,
		Date:        t.Timestamp.UTC().Format(storage.TimeLayout),
	}
}

func (s *Server) transactions(ts []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, 0, len(ts))
	for _, t := range ts {
		out = append(out, s.transaction(t))
	}
	return out
}

func (s *Server) totals(t core.Totals) totalsJSON {
	return totalsJSON{
		Income:   s.amount(t.Income),
		Expenses: s.amount(t.Expenses),
		Balance:  s.amount(t.Balance),
	}
}

func (s *Server) trend(months []core.MonthTotals) []monthJSON {
	out := make([]monthJSON, 0, len(months))
	for _, m := range months {
		out = append(out, monthJSON{
			Year:     m.Year,
			Month:    m.Month,
			Label:    m.Label,
			Income:   s.amount(m.Income),
			Expenses: s.amount(m.Expenses),
		})
	}
	return out
}

func (s *Server) breakdown(items []core.CategoryAmount) []categoryAmountJSON {
	out := make([]categoryAmountJSON, 0, len(items))
	for _, c := range items {
		out = append(out, categoryAmountJSON{Name: c.Name, Amount: s.amount(c.Amount)})
	}
	return out
}

func (s *Server) dashboardView(d services.Dashboard) dashboardJSON {
	categories := d.Categories
	if categories == nil {
		categories = []string{}
	}
	return dashboardJSON{
		Range:        rangeJSON{ID: d.Range.ID(), Label: d.Range.Label()},
		Category:     d.Category,
		Totals:       s.totals(d.Totals),
		Transactions: s.transactions(d.Transactions),
		Categories:   categories,
		Trend:        s.trend(d.Trend),
		Breakdown:    s.breakdown(d.Breakdown),
		GeneratedAt:  d.GeneratedAt.Format(time.RFC3339),
	}
}

// writeJSON writes v as a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorJSON struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorJSON{Error: errorBody{Message: msg}})
}

func writeFieldError(w http.ResponseWriter, status int, field, msg string) {
	writeJSON(w, status, errorJSON{Error: errorBody{Message: msg, Field: field}})
}
