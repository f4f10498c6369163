// Package storage persists ledgers in a string key-value store.
package storage

import (
	"context"
	"errors"
)

// ErrClosed is returned by a KV used after Close.
var ErrClosed = errors.New("storage closed")

// KV is a string key-value store. Get reports found=false for a missing key
// and reserves err for backend failures.
type KV interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Pinger is implemented by backends that can check their connection.
type Pinger interface {
	Ping(ctx context.Context) error
}
