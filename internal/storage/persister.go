package storage

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/core"
)

// KeyedPersister stores the whole collection as one payload under a key.
type KeyedPersister struct {
	blobs BlobStore
	key   string
}

// NewPersister binds blobs to StorageKey.
func NewPersister(blobs BlobStore) *KeyedPersister {
	return NewKeyedPersister(blobs, StorageKey)
}

func NewKeyedPersister(blobs BlobStore, key string) *KeyedPersister {
	return &KeyedPersister{blobs: blobs, key: key}
}

// Load returns ErrNotFound when nothing was saved yet and an error wrapping
// ErrCorrupt when the payload cannot be decoded.
func (p *KeyedPersister) Load(ctx context.Context) ([]core.Transaction, error) {
	data, err := p.blobs.Get(ctx, p.key)
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p.key, err)
	}
	return Decode(data)
}

// Save overwrites the payload with the full collection.
func (p *KeyedPersister) Save(ctx context.Context, ts []core.Transaction) error {
	data, err := Encode(ts)
	if err != nil {
		return err
	}
	if err := p.blobs.Put(ctx, p.key, data); err != nil {
		return fmt.Errorf("write %s: %w", p.key, err)
	}
	return nil
}
