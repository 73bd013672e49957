package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"lifedrop/pkg/metrics"
)

type Gateway struct {
	kv     KV
	logger *zap.Logger
}

func NewGateway(kv KV, logger *zap.Logger) *Gateway {
	return &Gateway{kv: kv, logger: logger}
}

// Load decodes the JSON array stored under key. Missing keys, backend errors,
// malformed JSON and a literal null all come back as an empty, non-nil slice.
func Load[T any](ctx context.Context, g *Gateway, key string) []T {
	raw := g.loadRaw(ctx, key)
	out := make([]T, 0)
	if raw == nil {
		return out
	}

	var decoded []T
	if err := json.Unmarshal(raw, &decoded); err != nil {
		metrics.IncrementStorageError("decode", key)
		g.logger.Warn("Stored collection is corrupt, starting empty",
			zap.String("key", key),
			zap.Error(err),
		)
		return out
	}
	if decoded == nil {
		return out
	}
	return decoded
}

func (g *Gateway) loadRaw(ctx context.Context, key string) []byte {
	start := time.Now()
	raw, err := g.kv.Get(ctx, key)
	metrics.RecordStorageOp("get", key, time.Since(start))

	if errors.Is(err, ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		metrics.IncrementStorageError("get", key)
		g.logger.Warn("Failed to read collection, starting empty",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return raw
}

// Save replaces the value under key with the JSON encoding of v.
func (g *Gateway) Save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		metrics.IncrementStorageError("encode", key)
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	start := time.Now()
	err = g.kv.Set(ctx, key, data)
	metrics.RecordStorageOp("set", key, time.Since(start))
	if err != nil {
		metrics.IncrementStorageError("set", key)
		g.logger.Warn("Failed to persist collection",
			zap.String("key", key),
			zap.Int("bytes", len(data)),
			zap.Error(err),
		)
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (g *Gateway) Ping(ctx context.Context) error {
	return g.kv.Ping(ctx)
}

func (g *Gateway) Close() error {
	return g.kv.Close()
}
