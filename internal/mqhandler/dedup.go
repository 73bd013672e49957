package mqhandler

import "context"

// Deduper guards handlers against redelivered events. util.Deduper
// implements it on top of redis SETNX.
type Deduper interface {
	AcquireOnce(ctx context.Context, handler, eventID string) bool
}
