package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/scalable_ticket/internal/core/domain"
)

// StoreGateway exposes transactional primitives over the relational
// model (spec.md §4.B). The coordinator never constructs SQL itself;
// it only sees the typed operations below.
type StoreGateway interface {
	BeginTx(ctx context.Context) (Tx, error)

	// FindBookingByID is a plain, non-locking read used by paths that
	// do not need row locks (e.g. looking up a booking before opening
	// its own update transaction).
	FindBookingByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error)

	// ListAvailableSeats is the advisory read path from spec.md §9
	// Open Question 1: not authoritative, used only to pre-filter a
	// browsing response before the caller attempts to acquire a lock.
	ListAvailableSeats(ctx context.Context, eventID uuid.UUID) ([]domain.Seat, error)

	// FindExpiredPendingBookings returns ids of PENDING bookings whose
	// booking_date is older than olderThan, for the expiry sweep.
	FindExpiredPendingBookings(ctx context.Context, olderThan time.Time) ([]uuid.UUID, error)
}

// Tx is a single transactional scope borrowed for the duration of one
// commit, confirm, or cancel. The coordinator owns no long-lived state
// beyond it (spec.md §3 Ownership).
type Tx interface {
	FindEventForUpdate(ctx context.Context, eventID uuid.UUID) (*domain.Event, error)
	FindSeatsForUpdate(ctx context.Context, seatIDs []uuid.UUID) ([]domain.Seat, error)

	InsertBooking(ctx context.Context, booking *domain.Booking) error
	InsertBookingSeats(ctx context.Context, seats []domain.BookingSeat) error

	// UpdateEventInventory applies delta (positive or negative) to
	// available_seats with the conditional predicate
	// available_seats + delta BETWEEN 0 AND max_capacity. ok is false
	// when the predicate fails (zero rows affected).
	UpdateEventInventory(ctx context.Context, eventID uuid.UUID, delta int) (ok bool, err error)

	UpdateSeatStatusBatch(ctx context.Context, seatIDs []uuid.UUID, status domain.SeatStatus) error

	FindBookingForUpdate(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error)
	UpdateBookingStatus(ctx context.Context, booking *domain.Booking) error
	FindBookingSeats(ctx context.Context, bookingID uuid.UUID) ([]domain.BookingSeat, error)

	Commit() error
	Rollback() error
}
