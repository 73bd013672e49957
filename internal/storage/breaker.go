package storage

import (
	"context"
	"errors"

	"lifedrop/pkg/circuitbreaker"
)

// breakerKV trips after repeated backend failures so a dead Redis or
// Postgres does not stall every mutation on its own timeout.
type breakerKV struct {
	next KV
	cb   *circuitbreaker.CircuitBreaker
}

func WithBreaker(next KV, cb *circuitbreaker.CircuitBreaker) KV {
	return &breakerKV{next: next, cb: cb}
}

func (b *breakerKV) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	var notFound bool
	err := b.cb.Execute(func() error {
		var err error
		data, err = b.next.Get(ctx, key)
		// a missing key is an answer, not a backend failure
		if errors.Is(err, ErrKeyNotFound) {
			notFound = true
			return nil
		}
		return err
	})
	if notFound {
		return nil, ErrKeyNotFound
	}
	return data, err
}

func (b *breakerKV) Set(ctx context.Context, key string, value []byte) error {
	return b.cb.Execute(func() error {
		return b.next.Set(ctx, key, value)
	})
}

func (b *breakerKV) Ping(ctx context.Context) error {
	return b.next.Ping(ctx)
}

func (b *breakerKV) Close() error {
	return b.next.Close()
}
