package ports

import (
	"context"

	"github.com/google/uuid"
)

// InvalidationScope identifies what part of the availability cache an
// invalidation concerns (spec.md §4.D).
type InvalidationScope string

const (
	ScopeEventMeta        InvalidationScope = "EventMeta"
	ScopeSeatAvailability InvalidationScope = "SeatAvailability"
)

// InvalidationHook is a one-way signal to the (out-of-scope) availability
// cache. Implementations must not block the caller on ordering and must
// not be retried by the coordinator on failure — an eventually-consistent
// cache is acceptable; the durable store remains authoritative.
type InvalidationHook interface {
	Invalidate(ctx context.Context, eventID uuid.UUID, scope InvalidationScope)
}
