// Package storage defines the namespaced key/value record store the app
// persists its session into, and a JSON file backend for it.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by GetItem when the key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// Storage is durable local key/value storage.
type Storage interface {
	GetItem(ctx context.Context, key string) ([]byte, error)
	SetItem(ctx context.Context, key string, value []byte) error
	RemoveItem(ctx context.Context, key string) error
}
