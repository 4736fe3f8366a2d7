package filter

import "fintrack/internal/core"

// AllCategories is the "no filter" category selection. Transactions never
// carry an empty category, so it cannot collide with a real label.
const AllCategories = ""

// ByCategory keeps the transactions whose category equals category exactly.
// AllCategories returns the input unchanged.
func ByCategory(ts []core.Transaction, category string) []core.Transaction {
	if category == AllCategories {
		return ts
	}
	out := make([]core.Transaction, 0, len(ts))
	for _, t := range ts {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// ByKind keeps the transactions of the given kind.
func ByKind(ts []core.Transaction, kind core.Kind) []core.Transaction {
	out := make([]core.Transaction, 0, len(ts))
	for _, t := range ts {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

// Categories returns the distinct categories of ts in first-seen order.
func Categories(ts []core.Transaction) []string {
	seen := make(map[string]struct{}, len(ts))
	out := make([]string, 0)
	for _, t := range ts {
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		out = append(out, t.Category)
	}
	return out
}
