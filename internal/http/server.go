// Package http serves the dashboard JSON API over the transaction store.
package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/metrics"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/services"
)

// PersistenceWarningHeader is set on every response while the last write
// of the collection has failed.
const PersistenceWarningHeader = "X-Persistence-Warning"

// TransactionStore is the part of store.Store the API needs.
type TransactionStore interface {
	Loaded() bool
	Add(ctx context.Context, kind core.Kind, amount core.Money, category, description string) (core.Transaction, error)
	Delete(ctx context.Context, id string) error
	List() []core.Transaction
	Categories() []string
	Revision() uint64
	LastSaveError() error
}

type Options struct {
	Logger         *log.Logger
	Metrics        *metrics.Recorder
	Cache          cache.Cache[services.Dashboard]
	Clock          func() time.Time
	Location       *time.Location
	CurrencySymbol string
	TrendMonths    int
	RequestTimeout time.Duration
	// WriteLimiter, when set, limits POST and DELETE requests per client.
	WriteLimiter   *ratelimit.Limiter
}

type Server struct {
	http.Server

	store     TransactionStore
	dashboard *services.DashboardService
	cache     cache.Cache[services.Dashboard]
	metrics   *metrics.Recorder
	logger    *log.Logger
	clock     func() time.Time
	loc       *time.Location
	currency  string
	limiter   *ratelimit.Limiter
}

func NewServer(addr string, st TransactionStore, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = "$"
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	s := &Server{
		store:     st,
		dashboard: services.NewDashboardService(st, opts.TrendMonths),
		cache:     opts.Cache,
		metrics:   opts.Metrics,
		logger:    opts.Logger.WithComponent(log.ComponentHTTP),
		clock:     opts.Clock,
		loc:       opts.Location,
		currency:  opts.CurrencySymbol,
		limiter:   opts.WriteLimiter,
	}
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(opts.RequestTimeout),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      opts.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes(timeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(log.Middleware(s.logger))
	r.Use(log.AccessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireLoaded)
		r.Use(s.persistenceWarning)

		r.Get("/transactions", s.handleListTransactions)
		r.Group(func(r chi.Router) {
			if s.limiter != nil {
				r.Use(s.limiter.Middleware(ratelimit.ClientIP, func(w http.ResponseWriter, r *http.Request) {
					writeError(w, http.StatusTooManyRequests, "too many changes, try again in a minute")
				}))
			}
			r.Post("/transactions", s.handleCreateTransaction)
			r.Delete("/transactions/{id}", s.handleDeleteTransaction)
		})
		r.Get("/summary", s.handleSummary)
		r.Get("/trend", s.handleTrend)
		r.Get("/breakdown", s.handleBreakdown)
		r.Get("/categories", s.handleCategories)
		r.Get("/categories/{type}", s.handleVocabulary)
		r.Get("/dashboard", s.handleDashboard)
	})

	if reg := s.metrics.Registry(); reg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	return r
}

// now returns the current time in the configured zone, so calendar
// boundaries follow the user's day.
func (s *Server) now() time.Time {
	return s.clock().In(s.loc)
}

func (s *Server) requireLoaded(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.store.Loaded() {
			writeError(w, http.StatusServiceUnavailable, "transactions are still loading")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// persistenceWarning flags responses while saved data is out of date. The
// header is set once the handler returns headers, so mutations report their
// own save result.
func (s *Server) persistenceWarning(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(&warningWriter{ResponseWriter: w, store: s.store}, r)
	})
}

type warningWriter struct {
	http.ResponseWriter
	store       TransactionStore
	wroteHeader bool
}

func (w *warningWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		if err := w.store.LastSaveError(); err != nil {
			w.Header().Set(PersistenceWarningHeader, "changes could not be saved: "+sanitizeHeader(err.Error()))
		}
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *warningWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func sanitizeHeader(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return ' '
		}
		return r
	}, s)
}

// dashboardKey identifies a dashboard view: the data revision, the
// selectors and the calendar day it was computed for.
func dashboardKey(rev uint64, q services.Query) string {
	return fmt.Sprintf("%d|%s|%q|%s", rev, q.Range.ID(), q.Category, q.Now.Format("2006-01-02"))
}

func (s *Server) cachedDashboard(q services.Query) services.Dashboard {
	if s.cache == nil {
		return s.dashboard.Build(q)
	}
	key := dashboardKey(s.store.Revision(), q)
	if d, ok := s.cache.Get(key); ok {
		s.metrics.CacheHit()
		return d
	}
	s.metrics.CacheMiss()
	d := s.dashboard.Build(q)
	s.cache.Set(key, d)
	return d
}
