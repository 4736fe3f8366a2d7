package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/cache"
	apphttp "fintrack/internal/http"
	"fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/services"
)

const shutdownTimeout = 10 * time.Second

func (a *App) serveCommand() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, net.JoinHostPort("", a.cfg.Port))
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (default from PORT or 8081)")
	return cmd
}

// serve runs the API server and the cache sweeper until ctx is cancelled,
// then shuts the server down gracefully.
func (a *App) serve(ctx context.Context, addr string) error {
	dashboards := cache.NewLRUCache[services.Dashboard](a.cfg.CacheSize, a.cfg.CacheTTL)
	manager := cache.NewManager(a.logger)
	manager.Register(dashboards)

	var limiter *ratelimit.Limiter
	if a.cfg.WriteRateLimit > 0 {
		limiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: a.cfg.WriteRateLimit})
		manager.Register(limiter)
	}

	srv := apphttp.NewServer(addr, a.store, apphttp.Options{
		Logger:         a.logger,
		Metrics:        a.metrics,
		Cache:          dashboards,
		Clock:          a.clock,
		Location:       a.loc,
		CurrencySymbol: a.cfg.CurrencySymbol,
		TrendMonths:    a.cfg.TrendMonths,
		WriteLimiter:   limiter,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("Starting fintrack server",
			log.FieldOperation, log.OpStartup,
			"addr", addr,
			log.FieldBackend, a.cfg.DataBackend,
			log.FieldCount, a.store.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return manager.Run(gctx, a.cfg.CacheTTL)
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Shutting down server", log.FieldOperation, log.OpShutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.logger.Info("Server stopped gracefully")
	return nil
}
