package memory

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"fintrack/internal/storage"
)

// SeedFile is read by NewFromDir to pre-populate the collection.
const SeedFile = "seed_transactions.json"

// Store is a BlobStore kept in process memory. Nothing survives a restart.
type Store struct {
	mu    sync.Mutex
	items map[string][]byte
}

func New() *Store {
	return &Store{items: make(map[string][]byte)}
}

// NewFromDir returns a store whose transaction payload is seeded from
// <base>/seed_transactions.json when that file exists. The seed is stored
// as is; a bad seed surfaces as corrupt data on load.
func NewFromDir(base string) *Store {
	s := New()
	if data, err := os.ReadFile(filepath.Join(base, SeedFile)); err == nil {
		s.items[storage.StorageKey] = data
	}
	return s
}

// Get implements storage.BlobStore.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.items[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Put implements storage.BlobStore.
func (s *Store) Put(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = append([]byte(nil), data...)
	return nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
