package services

import (
	"time"

	"fintrack/internal/core"
	"fintrack/internal/filter"
	"fintrack/internal/summary"
)

// TransactionSource provides the full, ordered transaction collection.
type TransactionSource interface {
	List() []core.Transaction
}

// Query selects the working subset of a view.
type Query struct {
	Range    filter.Range
	Category string
	Now      time.Time
}

// Dashboard is the composed overview page.
type Dashboard struct {
	Range    filter.Range
	Category string

	// Totals honour the date range only.
	Totals core.Totals
	// Transactions honour both the date range and the category.
	Transactions []core.Transaction
	// Categories present in the date range, for the category selector.
	Categories []string
	// Trend always covers the full history.
	Trend []core.MonthTotals
	// Breakdown is this month's expenses by category.
	Breakdown []core.CategoryAmount

	GeneratedAt time.Time
}

// DashboardService composes filters and aggregations over a transaction
// source. It holds no state of its own.
type DashboardService struct {
	source      TransactionSource
	trendMonths int
}

func NewDashboardService(source TransactionSource, trendMonths int) *DashboardService {
	if trendMonths < 1 {
		trendMonths = summary.DefaultTrendMonths
	}
	return &DashboardService{source: source, trendMonths: trendMonths}
}

// TrendMonths returns the default trend window.
func (s *DashboardService) TrendMonths() int {
	return s.trendMonths
}

// Transactions returns the date and category filtered list, newest first.
func (s *DashboardService) Transactions(q Query) []core.Transaction {
	return filterBoth(s.source.List(), q)
}

// Summary returns the totals of the date and category filtered subset.
func (s *DashboardService) Summary(q Query) core.Totals {
	return summary.Totals(filterBoth(s.source.List(), q))
}

// Trend returns the monthly trend over the whole history. months < 1 uses
// the service default.
func (s *DashboardService) Trend(now time.Time, months int) []core.MonthTotals {
	if months < 1 {
		months = s.trendMonths
	}
	return summary.MonthlyTrend(s.source.List(), now, months)
}

// Breakdown returns this month's expenses grouped by category.
func (s *DashboardService) Breakdown(now time.Time) []core.CategoryAmount {
	return summary.MonthExpenseBreakdown(s.source.List(), now)
}

// Build composes the dashboard from a single snapshot of the collection.
func (s *DashboardService) Build(q Query) Dashboard {
	all := s.source.List()
	inRange := filter.ByDateRange(all, q.Range, q.Now)

	return Dashboard{
		Range:        q.Range,
		Category:     q.Category,
		Totals:       summary.Totals(inRange),
		Transactions: filter.ByCategory(inRange, q.Category),
		Categories:   filter.Categories(inRange),
		Trend:        summary.MonthlyTrend(all, q.Now, s.trendMonths),
		Breakdown:    summary.MonthExpenseBreakdown(all, q.Now),
		GeneratedAt:  q.Now,
	}
}

func filterBoth(ts []core.Transaction, q Query) []core.Transaction {
	return filter.ByCategory(filter.ByDateRange(ts, q.Range, q.Now), q.Category)
}
