package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

// MaxDescriptionLength is the maximum number of characters in a description.
const MaxDescriptionLength = 100

type (
	Kind string

	Money struct {
		Cents int64
	}

	// Transaction is a single recorded income or expense event. Values are
	// never mutated after creation.
	Transaction struct {
		ID          string
		Kind        Kind
		Amount      Money
		Category    string
		Description string
		Timestamp   time.Time
	}
)

var (
	ErrInvalidKind        = errors.New("invalid transaction type")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyCategory      = errors.New("empty category")
	ErrDescriptionTooLong = errors.New("description too long (max 100 characters)")
	ErrEmptyID            = errors.New("empty id")
	ErrZeroTimestamp      = errors.New("timestamp cannot be zero")
)

// ValidationError reports which field of a transaction was rejected.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// ParseKind converts the wire form ("income", "expense") into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", invalid("type", ErrInvalidKind)
	}
	return k, nil
}

func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

func (k Kind) String() string {
	return string(k)
}

// ValidateFields checks the user supplied fields of a transaction before it
// is constructed.
func ValidateFields(kind Kind, amount Money, category, description string) error {
	if !kind.Valid() {
		return invalid("type", ErrInvalidKind)
	}
	if err := amount.Validate(); err != nil {
		return invalid("amount", err)
	}
	if strings.TrimSpace(category) == "" {
		return invalid("category", ErrEmptyCategory)
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return invalid("description", ErrDescriptionTooLong)
	}
	return nil
}

// Validate checks every invariant of a constructed transaction.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return invalid("id", ErrEmptyID)
	}
	if t.Timestamp.IsZero() {
		return invalid("date", ErrZeroTimestamp)
	}
	return ValidateFields(t.Kind, t.Amount, t.Category, t.Description)
}

// IsIncome reports whether the transaction adds to the balance.
func (t Transaction) IsIncome() bool {
	return t.Kind == Income
}

// IsExpense reports whether the transaction subtracts from the balance.
func (t Transaction) IsExpense() bool {
	return t.Kind == Expense
}
