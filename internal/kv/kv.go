// Package kv is the string-keyed persistence substrate the record store
// mirrors its state into. Values are opaque strings; no schema is enforced.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("kv: key not found")

// Store is an asynchronous string-keyed store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// Clear removes every key owned by this store.
	Clear(ctx context.Context) error
}
