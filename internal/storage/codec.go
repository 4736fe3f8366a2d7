package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// TimeLayout is the ISO-8601 form written for transaction dates, always in
// UTC with millisecond precision (e.g. 2024-01-15T10:30:00.000Z).
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// record is the persisted shape of a transaction.
type record struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
}

// Encode serialises ts as a JSON array of records, preserving order.
func Encode(ts []core.Transaction) ([]byte, error) {
	records := make([]record, 0, len(ts))
	for _, t := range ts {
		records = append(records, record{
			ID:          t.ID,
			Type:        t.Kind.String(),
			Amount:      json.Number(t.Amount.Decimal().String()),
			Category:    t.Category,
			Description: t.Description,
			Date:        t.Timestamp.UTC().Format(TimeLayout),
		})
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode transactions: %w", err)
	}
	return data, nil
}

// Decode parses a payload written by Encode. Any RFC 3339 date is accepted
// and amounts with more than two decimals are rounded half-up to cents.
// Errors wrap ErrCorrupt.
func Decode(data []byte) ([]core.Transaction, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	out := make([]core.Transaction, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		t, err := r.transaction()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrCorrupt, i, err)
		}
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("%w: record %d: duplicate id %q", ErrCorrupt, i, t.ID)
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}

func (r record) transaction() (core.Transaction, error) {
	kind, err := core.ParseKind(r.Type)
	if err != nil {
		return core.Transaction{}, err
	}
	d, err := decimal.NewFromString(r.Amount.String())
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount %q: %w", r.Amount, err)
	}
	amount, err := core.MoneyFromDecimal(d)
	if err != nil {
		return core.Transaction{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, r.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse date %q: %w", r.Date, err)
	}

	t := core.Transaction{
		ID:          r.ID,
		Kind:        kind,
		Amount:      amount,
		Category:    r.Category,
		Description: r.Description,
		Timestamp:   ts.UTC(),
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}
