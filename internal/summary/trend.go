package summary

import (
	"time"

	"fintrack/internal/core"
	"fintrack/internal/filter"
)

// DefaultTrendMonths is the length of the trailing window shown by the
// monthly overview.
const DefaultTrendMonths = 6

// MonthlyTrend buckets ts into the windowSize calendar months ending with the
// month of now, oldest first. Every month is present even when it has no
// transactions. Month boundaries are computed in now's location.
//
// Labels carry the short month name only, so a window spanning a year
// boundary shows e.g. "Nov Dec Jan" without years; Year is set on every
// entry for consumers that need to disambiguate.
func MonthlyTrend(ts []core.Transaction, now time.Time, windowSize int) []core.MonthTotals {
	if windowSize < 1 {
		windowSize = DefaultTrendMonths
	}
	current := filter.StartOfMonth(now)
	out := make([]core.MonthTotals, 0, windowSize)
	for i := windowSize - 1; i >= 0; i-- {
		start := current.AddDate(0, -i, 0)
		month := filter.ByWindow(ts, filter.MonthWindow(start))
		totals := Totals(month)
		out = append(out, core.MonthTotals{
			Year:     start.Year(),
			Month:    int(start.Month()),
			Label:    start.Format("Jan"),
			Income:   totals.Income,
			Expenses: totals.Expenses,
		})
	}
	return out
}
