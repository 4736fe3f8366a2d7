// Package store owns the canonical, ordered transaction collection.
//
// The collection is newest-first by insertion. Every successful mutation is
// written through the Persister before returning; a write failure is logged
// and remembered but never rolls back the in-memory state.
package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/filter"
	"fintrack/internal/log"
	"fintrack/internal/metrics"
	"fintrack/internal/storage"
)

var (
	ErrNotLoaded     = errors.New("store not loaded")
	ErrAlreadyLoaded = errors.New("store already loaded")
)

type Store struct {
	persister storage.Persister
	clock     func() time.Time
	newID     func() string
	logger    *log.Logger
	metrics   *metrics.Recorder

	mu       sync.RWMutex
	loaded   bool
	items    []core.Transaction
	revision uint64
	saveErr  error
}

type Option func(*Store)

// WithClock sets the source of creation timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithIDGenerator sets the source of transaction ids. Ids must be unique.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l.WithComponent(log.ComponentStore) }
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Store) { s.metrics = m }
}

func New(p storage.Persister, opts ...Option) *Store {
	s := &Store{
		persister: p,
		clock:     time.Now,
		newID:     uuid.NewString,
		logger:    log.Discard().WithComponent(log.ComponentStore),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the saved collection. Missing data gives an empty store, and
// unreadable or corrupt data is logged and also gives an empty store.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return ErrAlreadyLoaded
	}

	items, err := s.persister.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		items = nil
	default:
		reason := "read_error"
		if errors.Is(err, storage.ErrCorrupt) {
			reason = "corrupt"
		}
		s.logger.WarnContext(ctx, "Discarding saved transactions",
			log.FieldOperation, log.OpLoad, log.FieldError, err, "reason", reason)
		s.metrics.LoadRecovered(reason)
		items = nil
	}

	s.items = items
	s.loaded = true
	s.metrics.SetStored(len(s.items))
	s.logger.DebugContext(ctx, "Transactions loaded", log.FieldCount, len(s.items))
	return nil
}

// Loaded reports whether Load has completed.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Add validates the fields, creates a transaction stamped with the store's
// clock and prepends it. Category and description are trimmed first.
func (s *Store) Add(ctx context.Context, kind core.Kind, amount core.Money, category, description string) (core.Transaction, error) {
	category = strings.TrimSpace(category)
	description = strings.TrimSpace(description)
	if err := core.ValidateFields(kind, amount, category, description); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return core.Transaction{}, ErrNotLoaded
	}

	t := core.Transaction{
		ID:          s.newID(),
		Kind:        kind,
		Amount:      amount,
		Category:    category,
		Description: description,
		Timestamp:   s.clock().UTC().Truncate(time.Millisecond),
	}

	items := make([]core.Transaction, 0, len(s.items)+1)
	items = append(items, t)
	s.items = append(items, s.items...)
	s.revision++

	s.metrics.TransactionAdded(kind.String())
	s.logger.InfoContext(ctx, "Transaction added",
		log.NewFields().WithTransaction(t.ID, t.Kind.String(), t.Amount.Cents, t.Category).ToSlice()...)
	s.save(ctx)
	return t, nil
}

// Delete removes the transaction with id. Unknown ids are ignored and
// nothing is written.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}

	idx := -1
	for i, t := range s.items {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.logger.DebugContext(ctx, "Delete of unknown transaction ignored",
			log.FieldOperation, log.OpDelete,
			log.FieldTransactionID, id)
		return nil
	}

	items := make([]core.Transaction, 0, len(s.items)-1)
	items = append(items, s.items[:idx]...)
	s.items = append(items, s.items[idx+1:]...)
	s.revision++

	s.metrics.TransactionDeleted()
	s.logger.InfoContext(ctx, "Transaction deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldTransactionID, id)
	s.save(ctx)
	return nil
}

// save must be called with mu held.
func (s *Store) save(ctx context.Context) {
	s.metrics.SetStored(len(s.items))
	if err := s.persister.Save(ctx, s.items); err != nil {
		s.saveErr = err
		s.metrics.SaveFailed()
		s.logger.WarnContext(ctx, "Failed to persist transactions",
			log.FieldOperation, log.OpSave, log.FieldError, err, log.FieldCount, len(s.items))
		return
	}
	s.saveErr = nil
}

// List returns a copy of the collection, newest first.
func (s *Store) List() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Transaction, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the transaction with id.
func (s *Store) Get(id string) (core.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.items {
		if t.ID == id {
			return t, true
		}
	}
	return core.Transaction{}, false
}

// Categories returns the distinct categories present, in first-seen order.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter.Categories(s.items)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Revision increases on every successful add or delete.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// LastSaveError returns the error of the most recent write, or nil if it
// succeeded.
func (s *Store) LastSaveError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveErr
}
