package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fintrack/internal/core"
	"fintrack/internal/filter"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

const dateLayout = "2006-01-02 15:04"

func (a *App) addCommand() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "add income|expense AMOUNT CATEGORY",
		Short: "Record a transaction",
		Long: `Record an income or expense. AMOUNT accepts a dot or a comma as the
decimal separator (12.34 or 12,34). CATEGORY must belong to the vocabulary
of the type; see "fintrack categories --vocabulary TYPE".`,
		Example: `  fintrack add expense 12.50 "Food & Dining" -d lunch
  fintrack add income 2500 Salary`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := core.ParseKind(args[0])
			if err != nil {
				return err
			}
			amount, err := core.ParseAmount(args[1])
			if err != nil {
				return &core.ValidationError{Field: "amount", Err: err}
			}
			category := strings.TrimSpace(args[2])
			if err := core.CheckCategory(kind, category); err != nil {
				return fmt.Errorf("%w (valid: %s)", err, strings.Join(core.CategoriesFor(kind), ", "))
			}

			t, err := a.store.Add(cmd.Context(), kind, amount, category, description)
			if err != nil {
				return err
			}
			a.logger.Debug("Transaction added from command line",
				log.FieldTransactionID, t.ID, log.FieldKind, t.Kind.String())

			fmt.Fprintf(a.out, "Added %s %s %s (%s)\n",
				t.Kind, a.styles.signed(t, a.cfg.CurrencySymbol), t.Category, t.ID)
			a.warnIfUnsaved()
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Optional note, up to 100 characters")
	return cmd
}

func (a *App) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if _, ok := a.store.Get(id); !ok {
				a.styles.empty(a.out, "No transaction with id "+id)
				return nil
			}
			if err := a.store.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted %s\n", id)
			a.warnIfUnsaved()
			return nil
		},
	}
}

// queryFlags registers --range and --category on cmd.
func queryFlags(cmd *cobra.Command, rng, category *string) {
	cmd.Flags().StringVarP(rng, "range", "r", "all", "Date range: all, today, week or month")
	cmd.Flags().StringVarP(category, "category", "c", "", "Only this category (exact match)")
}

func (a *App) query(rng, category string) (services.Query, error) {
	r, err := filter.ParseRange(rng)
	if err != nil {
		return services.Query{}, err
	}
	return services.Query{Range: r, Category: category, Now: a.now()}, nil
}

func (a *App) listCommand() *cobra.Command {
	var rng, category string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List transactions, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := a.query(rng, category)
			if err != nil {
				return err
			}
			ts := a.dashboard.Transactions(q)
			if len(ts) == 0 {
				a.styles.empty(a.out, "No transactions.")
				return nil
			}
			rows := make([][]string, 0, len(ts))
			for _, t := range ts {
				rows = append(rows, []string{
					t.ID,
					t.Timestamp.In(a.loc).Format(dateLayout),
					t.Category,
					a.styles.signed(t, a.cfg.CurrencySymbol),
					t.Description,
				})
			}
			fmt.Fprintln(a.out, a.styles.renderTable(
				[]string{"ID", "Date", "Category", "Amount", "Description"}, rows, 3))
			return nil
		},
	}
	queryFlags(cmd, &rng, &category)
	return cmd
}

func (a *App) summaryCommand() *cobra.Command {
	var rng, category string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show income, expenses and balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := a.query(rng, category)
			if err != nil {
				return err
			}
			totals := a.dashboard.Summary(q)
			title := q.Range.Label()
			if q.Category != filter.AllCategories {
				title += " / " + q.Category
			}
			a.styles.heading(a.out, title)
			symbol := a.cfg.CurrencySymbol
			fmt.Fprintf(a.out, "Income:   %s\n", a.styles.income.Render(totals.Income.Format(symbol)))
			fmt.Fprintf(a.out, "Expenses: %s\n", a.styles.expense.Render(totals.Expenses.Format(symbol)))
			fmt.Fprintf(a.out, "Balance:  %s\n", a.styles.balance(totals.Balance, symbol))
			return nil
		},
	}
	queryFlags(cmd, &rng, &category)
	return cmd
}

func (a *App) trendCommand() *cobra.Command {
	var months int
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show monthly income and expenses, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("months") && (months < 1 || months > 120) {
				return fmt.Errorf("invalid months %d: must be between 1 and 120", months)
			}
			trend := a.dashboard.Trend(a.now(), months)
			symbol := a.cfg.CurrencySymbol
			rows := make([][]string, 0, len(trend))
			for _, m := range trend {
				rows = append(rows, []string{
					fmt.Sprintf("%s %d", m.Label, m.Year),
					a.styles.income.Render(m.Income.Format(symbol)),
					a.styles.expense.Render(m.Expenses.Format(symbol)),
				})
			}
			fmt.Fprintln(a.out, a.styles.renderTable(
				[]string{"Month", "Income", "Expenses"}, rows, 1, 2))
			return nil
		},
	}
	cmd.Flags().IntVarP(&months, "months", "m", 0, "Number of months to show (default from configuration)")
	return cmd
}

func (a *App) breakdownCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "breakdown",
		Short: "Show this month's expenses by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := a.now()
			items := a.dashboard.Breakdown(now)
			a.styles.heading(a.out, "Expenses for "+now.Format("January 2006"))
			if len(items) == 0 {
				a.styles.empty(a.out, "No expenses this month.")
				return nil
			}
			var total core.Money
			for _, c := range items {
				total = total.Add(c.Amount)
			}
			rows := make([][]string, 0, len(items))
			for _, c := range items {
				rows = append(rows, []string{c.Name, c.Amount.Format(a.cfg.CurrencySymbol), percent(c.Amount, total)})
			}
			fmt.Fprintln(a.out, a.styles.renderTable(
				[]string{"Category", "Amount", "Share"}, rows, 1, 2))
			return nil
		},
	}
}

func (a *App) categoriesCommand() *cobra.Command {
	var vocabulary string
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories in use, or the vocabulary of a type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			labels := a.store.Categories()
			if vocabulary != "" {
				kind, err := core.ParseKind(vocabulary)
				if err != nil {
					return err
				}
				labels = core.CategoriesFor(kind)
			}
			if len(labels) == 0 {
				a.styles.empty(a.out, "No categories yet.")
				return nil
			}
			for _, l := range labels {
				fmt.Fprintln(a.out, l)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&vocabulary, "vocabulary", "", "Print the fixed categories of income or expense")
	return cmd
}
