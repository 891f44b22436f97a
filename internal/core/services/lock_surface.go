package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/srgjo27/scalable_ticket/internal/core/domain"
	"github.com/srgjo27/scalable_ticket/internal/core/failure"
	"github.com/srgjo27/scalable_ticket/internal/core/ports"
)

// AcquireLock, ExtendLock, and ReleaseLock are thin proxies onto the
// lock registry. The operation surface in spec.md §6 groups them with
// the booking operations because this repo has no separate transport
// layer in scope — any outer service would call through to the same
// registry directly, so the coordinator exposes it here rather than
// forcing every caller to depend on ports.LockRegistry too.

func (s *BookingService) AcquireLock(ctx context.Context, seatID, eventID, userID uuid.UUID) (ports.LockResult, error) {
	res, err := s.registry.Acquire(ctx, seatID, eventID, userID)
	if err != nil {
		if errors.Is(err, ports.ErrAlreadyLocked) {
			return ports.LockResult{}, failure.New(failure.InvalidLocks, err)
		}
		return ports.LockResult{}, failure.New(failure.SystemError, err)
	}
	return res, nil
}

func (s *BookingService) ExtendLock(ctx context.Context, seatID, eventID, userID uuid.UUID, lockID string) (ports.LockResult, error) {
	res, err := s.registry.Extend(ctx, seatID, eventID, userID, lockID)
	if err != nil {
		if errors.Is(err, ports.ErrInvalidLock) {
			return ports.LockResult{}, failure.New(failure.InvalidLocks, err)
		}
		return ports.LockResult{}, failure.New(failure.SystemError, err)
	}
	return res, nil
}

func (s *BookingService) ReleaseLock(ctx context.Context, seatID, userID uuid.UUID, lockID string) (bool, error) {
	err := s.registry.Release(ctx, seatID, userID, lockID)
	if err != nil {
		if errors.Is(err, ports.ErrNotOwned) {
			return false, nil
		}
		return false, failure.New(failure.SystemError, err)
	}
	return true, nil
}

// ListAvailableSeats is the advisory read path from spec.md §9 Open
// Question 1: it filters the store's AVAILABLE seats through per-seat
// IsLocked calls against the registry. This narrows a browsing
// response; it is never the authoritative scarcity check — that
// happens at CreateBooking (step 4 + step 9 of spec.md §4.C).
func (s *BookingService) ListAvailableSeats(ctx context.Context, eventID uuid.UUID) ([]domain.Seat, error) {
	candidates, err := s.store.ListAvailableSeats(ctx, eventID)
	if err != nil {
		return nil, failure.New(failure.SystemError, err)
	}

	var unlocked []domain.Seat
	for _, seat := range candidates {
		locked, err := s.registry.IsLocked(ctx, seat.ID)
		if err != nil {
			// Fail-closed: if the registry can't tell us, treat the
			// seat as locked and drop it from the candidate list.
			continue
		}
		if !locked {
			unlocked = append(unlocked, seat)
		}
	}

	return unlocked, nil
}
