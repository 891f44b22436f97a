package services

import (
	"context"
	"log"
	"time"

	"github.com/sethvargo/go-retry"
)

// RunLockReapSweep periodically runs the registry's best-effort reap
// (spec.md §4.A reap_expired). Correctness never depends on this: the
// registry's own TTL is authoritative. This is the generalized form of
// the teacher's RunBackgroundCleanup goroutine.
func (s *BookingService) RunLockReapSweep(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("lock reap sweep started: every %s", interval)

	for {
		select {
		case <-ctx.Done():
			log.Println("lock reap sweep stopped")
			return
		case <-ticker.C:
			s.reapExpiredLocksOnce(ctx)
		}
	}
}

func (s *BookingService) reapExpiredLocksOnce(ctx context.Context) {
	backoff := retry.WithMaxRetries(3, retry.NewConstant(500*time.Millisecond))
	var reaped int
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		n, err := s.registry.ReapExpired(ctx)
		if err != nil {
			return retry.RetryableError(err)
		}
		reaped = n
		return nil
	})
	if err != nil {
		log.Printf("lock reap sweep: giving up this round: %v", err)
		return
	}
	if reaped > 0 {
		log.Printf("lock reap sweep: reclaimed %d stale lock(s)", reaped)
	}
}

// RunExpiredBookingSweep cancels PENDING bookings that have sat
// unconfirmed past ttl, releasing their seats and restoring inventory
// through the same CancelBooking path a user-initiated cancellation
// takes. This generalizes the teacher's RunBackgroundCleanup /
// processExpiredBookings onto the expanded Booking state machine
// (SPEC_FULL.md, Supplemented Features #2).
func (s *BookingService) RunExpiredBookingSweep(ctx context.Context, interval, ttl time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("expired booking sweep started: every %s, ttl %s", interval, ttl)

	for {
		select {
		case <-ctx.Done():
			log.Println("expired booking sweep stopped")
			return
		case <-ticker.C:
			s.expireBookingsOnce(ctx, ttl)
		}
	}
}

func (s *BookingService) expireBookingsOnce(ctx context.Context, ttl time.Duration) {
	ids, err := s.store.FindExpiredPendingBookings(ctx, time.Now().Add(-ttl))
	if err != nil {
		log.Printf("expired booking sweep: lookup failed: %v", err)
		return
	}
	if len(ids) == 0 {
		return
	}

	log.Printf("expired booking sweep: %d pending booking(s) past ttl", len(ids))

	for _, id := range ids {
		booking, err := s.store.FindBookingByID(ctx, id)
		if err != nil || booking == nil {
			log.Printf("expired booking sweep: could not load booking %s: %v", id, err)
			continue
		}

		if _, err := s.CancelBooking(ctx, booking.ID, booking.UserID, "expired: not confirmed within ttl"); err != nil {
			log.Printf("expired booking sweep: failed to cancel booking %s: %v", id, err)
		}
	}
}
