// Package storage provides the persistent key-value store the state model
// flushes to, plus JSON (de)serialization helpers for the individual slices.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Storage keys for the state slices. These are an external contract: values
// written under them are plain JSON text, and existing stores depend on the
// names staying put.
const (
	KeyCart     = "cart"
	KeyWishlist = "wishlist"
	KeyOrders   = "orders"
	KeyReviews  = "reviews"
	KeyUser     = "user"
)

// Store defines the string key-value store the state model persists to.
// This abstraction allows swapping backends (SQLite, in-memory, etc.)
// without changing the state layer.
type Store interface {
	// Get returns the value stored under key. ok is false when the key is
	// unset; err reports backend failures only.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set writes value under key, overwriting any prior value.
	Set(ctx context.Context, key, value string) error

	// Close releases any resources held by the store.
	Close() error
}

// Load reads and decodes the JSON stored under key. It never fails: an unset
// key, a backend error, or malformed stored JSON all degrade to fallback.
// Corruption is logged and otherwise swallowed — a bad slice must not take
// the rest of the state down with it.
func Load[T any](ctx context.Context, s Store, key string, fallback T) T {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		slog.Warn("Store read failed, using default", "key", key, "error", err)
		return fallback
	}
	if !ok {
		return fallback
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		slog.Warn("Stored value is not valid JSON, using default", "key", key, "error", err)
		return fallback
	}
	return v
}

// Save encodes value as JSON and writes it under key, overwriting any prior
// value.
func Save[T any](ctx context.Context, s Store, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
