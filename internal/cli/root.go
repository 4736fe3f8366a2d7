package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/metrics"
	"fintrack/internal/services"
	"fintrack/internal/store"
)

// App holds the state shared by every command of one invocation.
type App struct {
	out    io.Writer
	errOut io.Writer
	clock  func() time.Time

	// persistent flags
	backend string
	dataDir string
	dbPath  string

	cfg        *config.Config
	loc        *time.Location
	logger     *log.Logger
	metrics    *metrics.Recorder
	store      *store.Store
	dashboard  *services.DashboardService
	closeStore func() error
	styles     styles
}

type Option func(*App)

// WithOutput redirects command output and diagnostics.
func WithOutput(out, errOut io.Writer) Option {
	return func(a *App) {
		a.out = out
		a.errOut = errOut
	}
}

// WithClock sets the clock used to stamp and filter transactions.
func WithClock(clock func() time.Time) Option {
	return func(a *App) { a.clock = clock }
}

func NewApp(opts ...Option) *App {
	a := &App{
		out:    os.Stdout,
		errOut: os.Stderr,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.styles = newStyles(a.out)
	return a
}

// Command builds the fintrack command tree.
func (a *App) Command() *cobra.Command {
	root := &cobra.Command{
		Use:   "fintrack",
		Short: "Track personal income and expenses",
		Long: `fintrack records income and expense transactions and summarises them
by date range, category and month. Data is kept in a local file, a SQLite
database or in memory.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.PersistentFlags().StringVar(&a.backend, "backend", "", "Storage backend: memory, file or sqlite")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "Directory for the file and memory backends")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite database path")

	root.AddCommand(
		a.addCommand(),
		a.deleteCommand(),
		a.listCommand(),
		a.summaryCommand(),
		a.trendCommand(),
		a.breakdownCommand(),
		a.categoriesCommand(),
		a.serveCommand(),
	)
	return root
}

// Execute runs the command tree with args and returns the process exit code.
func (a *App) Execute(args []string) int {
	cmd := a.Command()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(a.errOut, a.styles.errorText.Render("error: "+err.Error()))
		_ = a.teardown()
		return 1
	}
	return 0
}

func (a *App) setup(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	cfg, err := LoadAndValidateConfig(func(c *config.Config) {
		if flags.Changed("backend") {
			c.DataBackend = a.backend
		}
		if flags.Changed("data-dir") {
			c.DataDir = a.dataDir
		}
		if flags.Changed("db") {
			c.SQLiteDBPath = a.dbPath
		}
	})
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	logger, err := SetupLogger(cfg, a.errOut)
	if err != nil {
		return err
	}
	if cfg.MetricsEnabled {
		a.metrics = metrics.New()
	}

	st, closeStore, err := OpenStore(cmd.Context(), cfg, logger, a.metrics, a.clock)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.loc = loc
	a.logger = logger
	a.store = st
	a.closeStore = closeStore
	a.dashboard = services.NewDashboardService(st, cfg.TrendMonths)
	return nil
}

func (a *App) teardown() error {
	if a.closeStore == nil {
		return nil
	}
	closeStore := a.closeStore
	a.closeStore = nil
	return closeStore()
}

// now returns the current time in the configured zone.
func (a *App) now() time.Time {
	return a.clock().In(a.loc)
}

// warnIfUnsaved prints a warning line when the last write failed. The
// in-memory change is kept either way.
func (a *App) warnIfUnsaved() {
	if err := a.store.LastSaveError(); err != nil {
		fmt.Fprintln(a.errOut, a.styles.warning.Render("warning: changes could not be saved: "+err.Error()))
	}
}
