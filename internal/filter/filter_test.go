package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

// Wednesday.
var now = time.Date(2025, 10, 15, 14, 30, 0, 0, time.UTC)

func tx(id string, kind core.Kind, cents int64, category string, ts time.Time) core.Transaction {
	return core.Transaction{ID: id, Kind: kind, Amount: core.Cents(cents), Category: category, Timestamp: ts}
}

func ids(ts []core.Transaction) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.ID)
	}
	return out
}

func TestParseRange(t *testing.T) {
	for _, r := range Ranges {
		got, err := ParseRange(r.ID())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	got, err := ParseRange("")
	require.NoError(t, err)
	assert.Equal(t, All, got)

	got, err = ParseRange("WEEK")
	require.NoError(t, err)
	assert.Equal(t, ThisWeek, got)

	_, err = ParseRange("year")
	assert.Error(t, err)
}

func TestRangeLabels(t *testing.T) {
	assert.Equal(t, "All Time", All.Label())
	assert.Equal(t, "Today", Today.Label())
	assert.Equal(t, "This Week", ThisWeek.Label())
	assert.Equal(t, "This Month", ThisMonth.Label())
}

func TestWindowFor(t *testing.T) {
	endOfToday := time.Date(2025, 10, 15, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)

	_, ok := WindowFor(All, now)
	assert.False(t, ok)

	w, ok := WindowFor(Today, now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, endOfToday, w.End)

	w, ok = WindowFor(ThisWeek, now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 10, 12, 0, 0, 0, 0, time.UTC), w.Start, "week starts on Sunday")
	assert.Equal(t, endOfToday, w.End)

	w, ok = WindowFor(ThisMonth, now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, endOfToday, w.End)
}

func TestStartOfWeekOnSunday(t *testing.T) {
	sunday := time.Date(2025, 10, 12, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 10, 12, 0, 0, 0, 0, time.UTC), StartOfWeek(sunday))

	saturday := time.Date(2025, 10, 18, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 10, 12, 0, 0, 0, 0, time.UTC), StartOfWeek(saturday))
}

func TestWindowUsesNowLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	localNow := time.Date(2025, 10, 15, 1, 0, 0, 0, loc)
	w, ok := WindowFor(Today, localNow)
	require.True(t, ok)
	assert.True(t, w.Start.Equal(time.Date(2025, 10, 14, 22, 0, 0, 0, time.UTC)))

	// 23:30 UTC on the 14th is already the 15th in UTC+2.
	assert.True(t, w.Contains(time.Date(2025, 10, 14, 23, 30, 0, 0, time.UTC)))
}

func TestByDateRangeAllIsIdentity(t *testing.T) {
	in := []core.Transaction{
		tx("b", core.Expense, 100, "Other", now.AddDate(-1, 0, 0)),
		tx("a", core.Income, 100, "Salary", now),
		tx("c", core.Expense, 100, "Other", now.AddDate(0, 0, 3)),
	}
	out := ByDateRange(in, All, now)
	assert.Equal(t, in, out)
	assert.Equal(t, []string{"b", "a", "c"}, ids(out))

	assert.Empty(t, ByDateRange(nil, Today, now))
	assert.Nil(t, ByDateRange(nil, All, now))
}

func TestByDateRangeBoundariesAreInclusive(t *testing.T) {
	startOfDay := StartOfDay(now)
	endOfDay := EndOfDay(now)
	in := []core.Transaction{
		tx("start", core.Expense, 1, "Other", startOfDay),
		tx("before", core.Expense, 1, "Other", startOfDay.Add(-time.Nanosecond)),
		tx("end", core.Expense, 1, "Other", endOfDay),
		tx("after", core.Expense, 1, "Other", endOfDay.Add(time.Nanosecond)),
		tx("mid", core.Expense, 1, "Other", now),
	}
	assert.Equal(t, []string{"start", "end", "mid"}, ids(ByDateRange(in, Today, now)))

	weekStart := StartOfWeek(now)
	week := []core.Transaction{
		tx("sun", core.Income, 1, "Salary", weekStart),
		tx("sat", core.Income, 1, "Salary", weekStart.Add(-time.Nanosecond)),
	}
	assert.Equal(t, []string{"sun"}, ids(ByDateRange(week, ThisWeek, now)))

	month := []core.Transaction{
		tx("first", core.Income, 1, "Salary", StartOfMonth(now)),
		tx("prev", core.Income, 1, "Salary", StartOfMonth(now).Add(-time.Nanosecond)),
		tx("tomorrow", core.Income, 1, "Salary", now.AddDate(0, 0, 1)),
	}
	assert.Equal(t, []string{"first"}, ids(ByDateRange(month, ThisMonth, now)))
}

func TestByCategory(t *testing.T) {
	in := []core.Transaction{
		tx("1", core.Expense, 100, "Food & Dining", now),
		tx("2", core.Expense, 100, "Shopping", now),
		tx("3", core.Expense, 100, "food & dining", now),
		tx("4", core.Expense, 100, "Food & Dining", now),
	}
	assert.Equal(t, in, ByCategory(in, AllCategories))
	assert.Equal(t, []string{"1", "4"}, ids(ByCategory(in, "Food & Dining")))
	assert.Empty(t, ByCategory(in, "Health"))
}

func TestByKindAndCategories(t *testing.T) {
	in := []core.Transaction{
		tx("1", core.Income, 100, "Salary", now),
		tx("2", core.Expense, 100, "Shopping", now),
		tx("3", core.Expense, 100, "Food & Dining", now),
		tx("4", core.Expense, 100, "Shopping", now),
	}
	assert.Equal(t, []string{"2", "3", "4"}, ids(ByKind(in, core.Expense)))
	assert.Equal(t, []string{"Salary", "Shopping", "Food & Dining"}, Categories(in))
	assert.Empty(t, Categories(nil))
}
