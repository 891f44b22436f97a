package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingRefunded  BookingStatus = "REFUNDED"
)

type Booking struct {
	ID                  uuid.UUID
	UserID              uuid.UUID
	EventID             uuid.UUID
	TotalPrice          Money
	Status              BookingStatus
	PaymentIntentID     string
	BookingDate         time.Time
	ConfirmedAt         *time.Time
	CancelledAt         *time.Time
	CancellationReason  string
	Seats               []BookingSeat
}

type BookingSeat struct {
	ID             uuid.UUID
	BookingID      uuid.UUID
	SeatID         uuid.UUID
	PriceAtBooking Money
}

// CanConfirm reports whether this booking may transition PENDING -> CONFIRMED.
func (b *Booking) CanConfirm() bool {
	return b.Status == BookingPending
}

// CanCancel reports whether this booking may transition to CANCELLED.
// CANCELLED and REFUNDED are terminal states.
func (b *Booking) CanCancel() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}
