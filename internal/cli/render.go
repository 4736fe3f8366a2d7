package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"fintrack/internal/core"
)

type styles struct {
	title     lipgloss.Style
	muted     lipgloss.Style
	income    lipgloss.Style
	expense   lipgloss.Style
	warning   lipgloss.Style
	errorText lipgloss.Style
	header    lipgloss.Style
	cell      lipgloss.Style
}

// newStyles binds the palette to out, so colours are dropped when out is
// not a terminal.
func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		title:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa")),
		muted:     r.NewStyle().Foreground(lipgloss.Color("#7f849c")),
		income:    r.NewStyle().Foreground(lipgloss.Color("#a6e3a1")),
		expense:   r.NewStyle().Foreground(lipgloss.Color("#f38ba8")),
		warning:   r.NewStyle().Foreground(lipgloss.Color("#f9e2af")),
		errorText: r.NewStyle().Foreground(lipgloss.Color("#f38ba8")).Bold(true),
		header:    r.NewStyle().Bold(true).Padding(0, 1),
		cell:      r.NewStyle().Padding(0, 1),
	}
}

// signed renders an amount with the sign of its kind.
func (s styles) signed(t core.Transaction, symbol string) string {
	if t.IsIncome() {
		return s.income.Render("+" + t.Amount.Format(symbol))
	}
	return s.expense.Render("-" + t.Amount.Format(symbol))
}

func (s styles) balance(m core.Money, symbol string) string {
	if m.IsNegative() {
		return s.expense.Render(m.Format(symbol))
	}
	return s.income.Render(m.Format(symbol))
}

// renderTable lays out rows under headers with a rounded border. Column
// alignment is right for the columns listed in numeric.
func (s styles) renderTable(headers []string, rows [][]string, numeric ...int) string {
	right := make(map[int]bool, len(numeric))
	for _, c := range numeric {
		right[c] = true
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.muted).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			st := s.cell
			if row == table.HeaderRow {
				st = s.header
			}
			if right[col] {
				st = st.Align(lipgloss.Right)
			}
			return st
		})
	return t.Render()
}

func (s styles) heading(w io.Writer, text string) {
	fmt.Fprintln(w, s.title.Render(text))
}

func (s styles) empty(w io.Writer, text string) {
	fmt.Fprintln(w, s.muted.Render(text))
}

// percent formats part/total with one decimal, e.g. "42.5%".
func percent(part, total core.Money) string {
	if total.Cents == 0 {
		return "0.0%"
	}
	p := float64(part.Cents) * 100 / float64(total.Cents)
	return strings.TrimSpace(fmt.Sprintf("%5.1f%%", p))
}
