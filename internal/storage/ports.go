// Package storage persists the transaction collection.
//
// A BlobStore keeps opaque payloads under string keys (SQLite, a directory of
// JSON files, or memory). A Persister binds a BlobStore to the single
// well-known key of the application's data set and converts between the
// payload and []core.Transaction using the wire codec.
package storage

import (
	"context"
	"errors"

	"fintrack/internal/core"
)

// StorageKey is the fixed key under which the transaction collection is saved.
const StorageKey = "expense-tracker-transactions"

var (
	// ErrNotFound is returned when nothing has been saved under a key yet.
	ErrNotFound = errors.New("no saved data")
	// ErrCorrupt is returned when a saved payload cannot be decoded or holds
	// records that violate the transaction invariants.
	ErrCorrupt = errors.New("corrupt transaction payload")
)

// Ports for persistence adapters.
type (
	BlobStore interface {
		// Get returns ErrNotFound when key has never been written.
		Get(ctx context.Context, key string) ([]byte, error)
		// Put overwrites any previous value stored under key.
		Put(ctx context.Context, key string, data []byte) error
	}

	Loader interface {
		Load(ctx context.Context) ([]core.Transaction, error)
	}

	Saver interface {
		Save(ctx context.Context, ts []core.Transaction) error
	}

	Persister interface {
		Loader
		Saver
	}
)
