// Package kvstore is the key-value capability the booking flow persists
// booking identity under. Production uses Redis; tests use the in-memory
// store. Scan-by-prefix is part of the contract because recovering "the most
// recent booking for this doctor" may have to walk all doctor-scoped keys.
package kvstore

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("kvstore: key not found")

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	ScanPrefix(ctx context.Context, prefix string) (map[string]string, error)
}
