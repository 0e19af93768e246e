// Package store provides the string key-value persistence contract the
// rest of the app is written against, plus the concrete backends.
// Values are JSON documents serialized by the callers; the store itself
// never interprets them.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("store: key not found")

// KV is the persistence contract: synchronous string-keyed get/set/delete.
// Implementations must treat Set as a full overwrite and Delete of a
// missing key as a no-op.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Watcher is an optional interface a backend may implement to emit
// best-effort change notifications (the cross-tab storage-event analog).
// Callbacks receive the changed key and may fire from any goroutine;
// delivery is not guaranteed and no ordering is defined.
type Watcher interface {
	Watch(fn func(key string))
}

// Closer is implemented by backends holding external resources.
type Closer interface {
	Close() error
}
