// Package storage persists named JSON collections in a key-value backend.
//
// The Gateway never fails a read: a missing key, a backend error or a value
// that does not decode all produce an empty collection. Writes are best
// effort and report their error to the caller, which usually only logs it.
package storage

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("storage: key not found")

// KV is the minimal backend contract. Get returns ErrKeyNotFound for a key
// that was never written.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}
