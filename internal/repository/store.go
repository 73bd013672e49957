// Package repository keeps the donor and receiver collections in memory and
// mirrors them to the storage gateway after every mutation.
//
// Stores are not safe for concurrent use. The event loop owns them.
package repository

import (
	"context"

	"go.uber.org/zap"

	"lifedrop/internal/storage"
)

// Entity is anything with a stable id.
type Entity interface {
	EntityID() string
}

type Store[T Entity] struct {
	key    string
	gw     *storage.Gateway
	items  []T
	logger *zap.Logger
}

func NewStore[T Entity](gw *storage.Gateway, key string, logger *zap.Logger) *Store[T] {
	return &Store[T]{
		key:    key,
		gw:     gw,
		items:  make([]T, 0),
		logger: logger,
	}
}

func (s *Store[T]) Key() string { return s.key }

// Hydrate replaces the in-memory collection with whatever the gateway holds.
func (s *Store[T]) Hydrate(ctx context.Context) {
	s.items = storage.Load[T](ctx, s.gw, s.key)
	s.logger.Info("Collection hydrated",
		zap.String("key", s.key),
		zap.Int("count", len(s.items)),
	)
}

// Add puts e at the front and persists the whole collection.
func (s *Store[T]) Add(ctx context.Context, e T) {
	items := make([]T, 0, len(s.items)+1)
	items = append(items, e)
	s.items = append(items, s.items...)
	s.persist(ctx)
}

// Remove drops the first entity with the given id. Nothing is written when
// the id is absent.
func (s *Store[T]) Remove(ctx context.Context, id string) bool {
	for i, e := range s.items {
		if e.EntityID() == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			s.persist(ctx)
			return true
		}
	}
	return false
}

func (s *Store[T]) Clear(ctx context.Context) {
	s.items = make([]T, 0)
	s.persist(ctx)
}

func (s *Store[T]) FindByID(id string) (T, bool) {
	for _, e := range s.items {
		if e.EntityID() == id {
			return e, true
		}
	}
	var zero T
	return zero, false
}

// List returns a copy, newest first.
func (s *Store[T]) List() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store[T]) Len() int { return len(s.items) }

// Latest is the most recently added entity.
func (s *Store[T]) Latest() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[0], true
}

// Flush writes the collection and reports the error instead of swallowing it.
func (s *Store[T]) Flush(ctx context.Context) error {
	return s.gw.Save(ctx, s.key, s.items)
}

// replace swaps the whole collection; used by seeding.
func (s *Store[T]) replace(ctx context.Context, items []T) {
	s.items = items
	s.persist(ctx)
}

func (s *Store[T]) persist(ctx context.Context) {
	// gateway already logged it; memory stays authoritative
	if err := s.gw.Save(ctx, s.key, s.items); err != nil {
		s.logger.Debug("Mutation kept in memory only",
			zap.String("key", s.key),
			zap.Int("count", len(s.items)),
		)
	}
}
