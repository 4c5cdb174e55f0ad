// Package storage persists the application snapshot in a single key-value
// slot. Slots are raw byte stores (SQLite, file, memory); SnapshotStore
// layers JSON encoding and the best-effort error policy on top.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Slot.Get when the key has never been written
// or was deleted.
var ErrNotFound = errors.New("slot not found")

// Slot is a durable key-value cell.
type Slot interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
