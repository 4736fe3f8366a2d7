// Package summary derives totals, category breakdowns and monthly trends
// from a list of transactions. All amounts are summed in integer cents.
package summary

import (
	"sort"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/filter"
)

// TotalIncome sums the amounts of income transactions.
func TotalIncome(ts []core.Transaction) core.Money {
	return sumKind(ts, core.Income)
}

// TotalExpenses sums the amounts of expense transactions.
func TotalExpenses(ts []core.Transaction) core.Money {
	return sumKind(ts, core.Expense)
}

// Balance is TotalIncome minus TotalExpenses and may be negative.
func Balance(ts []core.Transaction) core.Money {
	return TotalIncome(ts).Sub(TotalExpenses(ts))
}

// Totals computes income, expenses and balance in a single pass.
func Totals(ts []core.Transaction) core.Totals {
	var out core.Totals
	for _, t := range ts {
		switch t.Kind {
		case core.Income:
			out.Income = out.Income.Add(t.Amount)
		case core.Expense:
			out.Expenses = out.Expenses.Add(t.Amount)
		}
	}
	out.Balance = out.Income.Sub(out.Expenses)
	return out
}

func sumKind(ts []core.Transaction, kind core.Kind) core.Money {
	var sum core.Money
	for _, t := range ts {
		if t.Kind == kind {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}

// CategoryBreakdown groups ts by category and sums the amounts of each
// group. The result is ordered by descending sum; equal sums keep the order
// in which their category was first seen. Callers normally pass a single
// kind, see MonthExpenseBreakdown.
func CategoryBreakdown(ts []core.Transaction) []core.CategoryAmount {
	index := make(map[string]int)
	out := make([]core.CategoryAmount, 0)
	for _, t := range ts {
		i, ok := index[t.Category]
		if !ok {
			i = len(out)
			index[t.Category] = i
			out = append(out, core.CategoryAmount{Name: t.Category})
		}
		out[i].Amount = out[i].Amount.Add(t.Amount)
	}

	// Amounts are positive so no group can sum to zero; guard anyway for
	// lists that were never validated.
	kept := out[:0]
	for _, c := range out {
		if !c.Amount.IsZero() {
			kept = append(kept, c)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Amount.Cents > kept[j].Amount.Cents
	})
	return kept
}

// MonthExpenseBreakdown is the category breakdown of the expenses recorded
// in the calendar month containing now.
func MonthExpenseBreakdown(ts []core.Transaction, now time.Time) []core.CategoryAmount {
	expenses := filter.ByKind(ts, core.Expense)
	return CategoryBreakdown(filter.ByWindow(expenses, filter.MonthWindow(now)))
}
