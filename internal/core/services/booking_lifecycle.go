package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/srgjo27/scalable_ticket/internal/core/domain"
	"github.com/srgjo27/scalable_ticket/internal/core/failure"
	"github.com/srgjo27/scalable_ticket/internal/core/ports"
)

// ConfirmBooking transitions a PENDING booking with a matching
// payment_intent_id to CONFIRMED (spec.md §4.C confirm).
func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID uuid.UUID, paymentIntentID string) (*domain.Booking, error) {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, failure.New(failure.SystemError, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	booking, err := tx.FindBookingForUpdate(ctx, bookingID)
	if err != nil {
		return nil, failure.New(failure.SystemError, err)
	}
	if booking == nil {
		return nil, failure.New(failure.BookingNotFound, nil)
	}
	if booking.PaymentIntentID != paymentIntentID || !booking.CanConfirm() {
		return nil, failure.New(failure.InvalidStatus, nil)
	}

	now := time.Now()
	booking.Status = domain.BookingConfirmed
	booking.ConfirmedAt = &now

	if err := tx.UpdateBookingStatus(ctx, booking); err != nil {
		return nil, failure.New(failure.SystemError, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, failure.New(failure.SystemError, err)
	}
	committed = true

	return booking, nil
}

// CancelBooking transitions a non-CANCELLED booking owned by userID to
// CANCELLED, releases its seats, and restores event inventory, all in
// one transaction (spec.md §4.C cancel).
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, userID uuid.UUID, reason string) (*domain.Booking, error) {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, failure.New(failure.SystemError, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	booking, err := tx.FindBookingForUpdate(ctx, bookingID)
	if err != nil {
		return nil, failure.New(failure.SystemError, err)
	}
	if booking == nil {
		return nil, failure.New(failure.BookingNotFound, nil)
	}
	if booking.UserID != userID {
		return nil, failure.New(failure.BookingNotFound, nil)
	}
	if booking.Status == domain.BookingCancelled {
		return nil, failure.New(failure.AlreadyCancelled, nil)
	}
	if !booking.CanCancel() {
		return nil, failure.New(failure.InvalidStatus, nil)
	}

	seats, err := tx.FindBookingSeats(ctx, bookingID)
	if err != nil {
		return nil, failure.New(failure.SystemError, err)
	}

	seatIDs := make([]uuid.UUID, len(seats))
	for i, bs := range seats {
		seatIDs[i] = bs.SeatID
	}

	now := time.Now()
	booking.Status = domain.BookingCancelled
	booking.CancelledAt = &now
	booking.CancellationReason = reason

	if err := tx.UpdateBookingStatus(ctx, booking); err != nil {
		return nil, failure.New(failure.SystemError, err)
	}
	if err := tx.UpdateSeatStatusBatch(ctx, seatIDs, domain.SeatAvailable); err != nil {
		return nil, failure.New(failure.SystemError, err)
	}
	if ok, err := tx.UpdateEventInventory(ctx, booking.EventID, len(seatIDs)); err != nil {
		return nil, failure.New(failure.SystemError, err)
	} else if !ok {
		log.Printf("WARN: inventory restore for event %s would exceed max_capacity; skipping increment", booking.EventID)
	}

	if err := tx.Commit(); err != nil {
		return nil, failure.New(failure.SystemError, err)
	}
	committed = true

	booking.Seats = seats
	s.invalidation.Invalidate(ctx, booking.EventID, ports.ScopeSeatAvailability)

	return booking, nil
}
