package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LockResult is returned by a successful Acquire or Extend.
type LockResult struct {
	LockID    string
	ExpiresAt time.Time
}

// LockRegistry is the distributed, TTL-backed seat-lock store described
// in spec.md §4.A. Every mutating operation folds its full ownership
// predicate into the underlying conditional write so there is no
// read-then-write window for a second caller to win. Implementations
// must be safe for concurrent use by any number of callers.
type LockRegistry interface {
	// Acquire grants a fresh, exclusive lease on seatID if none is
	// currently live. Returns failure.InvalidLocks-shaped errors are
	// not used here; callers distinguish AlreadyLocked via errors.Is
	// against ErrAlreadyLocked.
	Acquire(ctx context.Context, seatID, eventID, userID uuid.UUID) (LockResult, error)

	// Extend refreshes the TTL of a lease this caller currently holds.
	Extend(ctx context.Context, seatID, eventID, userID uuid.UUID, lockID string) (LockResult, error)

	// Release deletes a lease this caller currently holds.
	Release(ctx context.Context, seatID, userID uuid.UUID, lockID string) error

	// IsLocked reports whether a live lease exists on seatID. On a
	// transient registry error it returns (true, err): fail-closed,
	// per spec.md §4.A.
	IsLocked(ctx context.Context, seatID uuid.UUID) (bool, error)

	// Validate reports whether the current lease on seatID matches both
	// userID and lockID and has not expired.
	Validate(ctx context.Context, seatID, userID uuid.UUID, lockID string) (bool, error)

	// ReapExpired best-effort deletes leases whose TTL has already
	// elapsed but which the store has not yet reclaimed. Correctness
	// never depends on this running; it exists to bound registry size
	// between TTL sweeps.
	ReapExpired(ctx context.Context) (int, error)
}

var (
	// ErrAlreadyLocked is returned by Acquire when another live lease
	// already exists for the seat.
	ErrAlreadyLocked = registryError("seat already locked")
	// ErrInvalidLock is returned by Extend when the caller's lock_id/
	// user_id pair no longer matches a live lease.
	ErrInvalidLock = registryError("lock not owned or expired")
	// ErrNotOwned is returned by Release under the same condition.
	ErrNotOwned = registryError("lock not owned")
)

type registryError string

func (e registryError) Error() string { return string(e) }
