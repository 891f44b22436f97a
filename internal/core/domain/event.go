package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	EventDraft       EventStatus = "DRAFT"
	EventPublished   EventStatus = "PUBLISHED"
	EventSalesOpen   EventStatus = "SALES_OPEN"
	EventSalesClosed EventStatus = "SALES_CLOSED"
	EventCompleted   EventStatus = "COMPLETED"
	EventCancelled   EventStatus = "CANCELLED"
)

type Event struct {
	ID             uuid.UUID
	VenueID        uuid.UUID
	EventDate      time.Time
	BasePrice      Money
	MaxCapacity    int
	AvailableSeats int
	Status         EventStatus
}

// CanPurchaseTickets reports whether seats can currently be booked for
// this event, per the invariant in the data model: the event must be
// open for sales, have inventory left, and not have already happened.
func (e *Event) CanPurchaseTickets(now time.Time) bool {
	return e.Status == EventSalesOpen && e.AvailableSeats > 0 && now.Before(e.EventDate)
}
