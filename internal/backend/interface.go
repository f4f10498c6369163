// Package backend builds the storage, notification and export collaborators
// selected by configuration.
package backend

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"splitter/internal/storage"
)

// ErrUnknownBackend is returned for a DATA_BACKEND value no KV store answers to.
var ErrUnknownBackend = errors.New("unknown data backend")

// BackendResult is an opened ledger store. Cleanup closes the KV behind it.
type BackendResult struct {
	Store   *storage.FinanceStore
	Cleanup func() error
}

// Factory opens the ledger store described by a Config.
type Factory interface {
	CreateBackend(ctx context.Context, cfg Config) (*BackendResult, error)
}

// Config selects the KV backend and the key layout of the ledger on top of it.
type Config struct {
	Type BackendType

	SQLiteDBPath string
	Redis        storage.RedisOptions

	ContributionsKey string
	SeedWithExamples bool
}

// BackendType names a KV implementation.
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	SQLiteBackend BackendType = "sqlite"
	RedisBackend  BackendType = "redis"
)

var backendTypes = []BackendType{MemoryBackend, SQLiteBackend, RedisBackend}

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	return slices.Contains(backendTypes, bt)
}

// ParseBackendType reads a DATA_BACKEND value, ignoring case and surrounding
// blanks.
func ParseBackendType(s string) (BackendType, error) {
	bt := BackendType(strings.ToLower(strings.TrimSpace(s)))
	if !bt.IsValid() {
		names := make([]string, len(backendTypes))
		for i, t := range backendTypes {
			names[i] = t.String()
		}
		return "", fmt.Errorf("%w %q: want one of %s", ErrUnknownBackend, s, strings.Join(names, ", "))
	}
	return bt, nil
}
