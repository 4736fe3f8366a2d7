package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// Totals is the income/expense/balance triple shown on the summary cards.
type Totals struct {
	Income   Money
	Expenses Money
	Balance  Money
}

// MonthTotals is the income and expense sum of one calendar month.
type MonthTotals struct {
	Year     int
	Month    int // 1-12
	Label    string
	Income   Money
	Expenses Money
}
