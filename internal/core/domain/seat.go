package domain

import "github.com/google/uuid"

type SeatStatus string

const (
	SeatAvailable   SeatStatus = "AVAILABLE"
	SeatBooked      SeatStatus = "BOOKED"
	SeatMaintenance SeatStatus = "MAINTENANCE"
)

type Seat struct {
	ID            uuid.UUID
	VenueID       uuid.UUID
	Section       string
	Row           string
	Number        string
	Type          string
	Status        SeatStatus
	PriceModifier PriceModifier
}

func (s *Seat) IsAvailable() bool {
	return s.Status == SeatAvailable
}
