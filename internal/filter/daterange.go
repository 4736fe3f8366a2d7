// Package filter restricts transaction lists by time window and category.
//
// Every function here is pure: "now" is always passed in by the caller.
package filter

import (
	"fmt"
	"strings"
	"time"

	"fintrack/internal/core"
)

// Range selects the time window applied to a transaction list.
type Range int

const (
	All Range = iota
	Today
	ThisWeek
	ThisMonth
)

// WeekStart is the first day of the week used by ThisWeek.
const WeekStart = time.Sunday

// Ranges lists the selectors in display order.
var Ranges = []Range{All, Today, ThisWeek, ThisMonth}

// ParseRange accepts the selector ids "all", "today", "week" and "month".
// An empty string selects All.
func ParseRange(s string) (Range, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return All, nil
	case "today":
		return Today, nil
	case "week":
		return ThisWeek, nil
	case "month":
		return ThisMonth, nil
	default:
		return All, fmt.Errorf("unknown date range %q: must be one of all, today, week, month", s)
	}
}

// ID returns the selector id accepted by ParseRange.
func (r Range) ID() string {
	switch r {
	case Today:
		return "today"
	case ThisWeek:
		return "week"
	case ThisMonth:
		return "month"
	default:
		return "all"
	}
}

// Label returns the human readable name of the selector.
func (r Range) Label() string {
	switch r {
	case Today:
		return "Today"
	case ThisWeek:
		return "This Week"
	case ThisMonth:
		return "This Month"
	default:
		return "All Time"
	}
}

func (r Range) String() string {
	return r.ID()
}

// Window is a closed time interval.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies within the window, boundaries included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// WindowFor computes the window selected by r relative to now. The boolean
// is false for All, which imposes no restriction.
func WindowFor(r Range, now time.Time) (Window, bool) {
	end := EndOfDay(now)
	switch r {
	case Today:
		return Window{Start: StartOfDay(now), End: end}, true
	case ThisWeek:
		return Window{Start: StartOfWeek(now), End: end}, true
	case ThisMonth:
		return Window{Start: StartOfMonth(now), End: end}, true
	default:
		return Window{}, false
	}
}

// ByDateRange keeps the transactions whose timestamp falls inside the window
// selected by r. For All the input slice is returned as is.
func ByDateRange(ts []core.Transaction, r Range, now time.Time) []core.Transaction {
	w, ok := WindowFor(r, now)
	if !ok {
		return ts
	}
	return ByWindow(ts, w)
}

// ByWindow keeps the transactions inside w, preserving order.
func ByWindow(ts []core.Transaction, w Window) []core.Transaction {
	out := make([]core.Transaction, 0, len(ts))
	for _, t := range ts {
		if w.Contains(t.Timestamp) {
			out = append(out, t)
		}
	}
	return out
}

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last nanosecond of t's day in t's location.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// StartOfWeek returns midnight of the most recent WeekStart on or before t.
func StartOfWeek(t time.Time) time.Time {
	diff := (int(t.Weekday()) - int(WeekStart) + 7) % 7
	return StartOfDay(t).AddDate(0, 0, -diff)
}

// StartOfMonth returns midnight of the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns the last nanosecond of t's month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// MonthWindow is the closed interval covering the whole calendar month of t.
func MonthWindow(t time.Time) Window {
	return Window{Start: StartOfMonth(t), End: EndOfMonth(t)}
}
