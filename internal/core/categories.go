package core

import "errors"

// ErrUnknownCategory is returned when a label is outside the vocabulary of
// its transaction type.
var ErrUnknownCategory = errors.New("unknown category")

// Fixed category vocabularies. Income and expense labels are disjoint.
var (
	incomeCategories = []string{
		"Salary",
		"Freelance",
		"Investments",
		"Gifts",
		"Other Income",
	}

	expenseCategories = []string{
		"Food & Dining",
		"Transportation",
		"Shopping",
		"Entertainment",
		"Bills & Utilities",
		"Health",
		"Education",
		"Other",
	}
)

// CategoriesFor returns a copy of the vocabulary for kind, or nil for an
// unknown kind.
func CategoriesFor(kind Kind) []string {
	switch kind {
	case Income:
		return append([]string(nil), incomeCategories...)
	case Expense:
		return append([]string(nil), expenseCategories...)
	default:
		return nil
	}
}

// IsKnownCategory reports whether category belongs to the vocabulary of kind.
// Matching is exact.
func IsKnownCategory(kind Kind, category string) bool {
	for _, c := range CategoriesFor(kind) {
		if c == category {
			return true
		}
	}
	return false
}

// CheckCategory returns a *ValidationError wrapping ErrUnknownCategory when
// category is not in the vocabulary of kind. Front ends call it before adding.
func CheckCategory(kind Kind, category string) error {
	if !kind.Valid() {
		return invalid("type", ErrInvalidKind)
	}
	if !IsKnownCategory(kind, category) {
		return invalid("category", ErrUnknownCategory)
	}
	return nil
}
