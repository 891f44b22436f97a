// Package postgres implements the durable store gateway (spec.md §4.B)
// over database/sql and lib/pq, the teacher's own driver of choice.
// Query construction never leaks past this package; the coordinator
// only ever calls the typed operations on ports.StoreGateway / ports.Tx.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/srgjo27/scalable_ticket/internal/core/domain"
	"github.com/srgjo27/scalable_ticket/internal/core/ports"
)

type Gateway struct {
	db *sql.DB
}

func NewGateway(db *sql.DB) *Gateway {
	return &Gateway{db: db}
}

func (g *Gateway) BeginTx(ctx context.Context) (ports.Tx, error) {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return &txImpl{tx: tx}, nil
}

func (g *Gateway) FindBookingByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	booking, err := scanBooking(g.db.QueryRowContext(ctx, bookingSelectQuery, bookingID))
	if err != nil {
		return nil, err
	}

	seats, err := queryBookingSeats(ctx, g.db, bookingID)
	if err != nil {
		return nil, err
	}
	booking.Seats = seats

	return booking, nil
}

// ListAvailableSeats is the advisory, non-authoritative read path from
// spec.md §9 Open Question 1. It does not consult the lock registry;
// that filtering, where it happens at all, is the caller's concern.
func (g *Gateway) ListAvailableSeats(ctx context.Context, eventID uuid.UUID) ([]domain.Seat, error) {
	rows, err := g.db.QueryContext(ctx, `
		SELECT s.id, s.venue_id, s.section, s.row, s.number, s.type, s.status, s.price_modifier
		FROM seats s
		JOIN events e ON e.venue_id = s.venue_id
		WHERE e.id = $1 AND s.status = $2
	`, eventID, domain.SeatAvailable)
	if err != nil {
		return nil, fmt.Errorf("list available seats: %w", err)
	}
	defer rows.Close()

	var seats []domain.Seat
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.ID, &s.VenueID, &s.Section, &s.Row, &s.Number, &s.Type, &s.Status, &s.PriceModifier); err != nil {
			return nil, fmt.Errorf("scan seat: %w", err)
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

func (g *Gateway) FindExpiredPendingBookings(ctx context.Context, olderThan time.Time) ([]uuid.UUID, error) {
	rows, err := g.db.QueryContext(ctx, `
		SELECT id FROM bookings
		WHERE status = $1 AND booking_date < $2
		LIMIT 100
	`, domain.BookingPending, olderThan)
	if err != nil {
		return nil, fmt.Errorf("find expired pending bookings: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan expired booking id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

const bookingSelectQuery = `
	SELECT id, user_id, event_id, total_price, status, payment_intent_id,
	       booking_date, confirmed_at, cancelled_at, cancellation_reason
	FROM bookings
	WHERE id = $1
`

func scanBooking(row *sql.Row) (*domain.Booking, error) {
	var b domain.Booking
	var paymentIntentID, cancellationReason sql.NullString
	var confirmedAt, cancelledAt sql.NullTime

	err := row.Scan(
		&b.ID, &b.UserID, &b.EventID, &b.TotalPrice, &b.Status, &paymentIntentID,
		&b.BookingDate, &confirmedAt, &cancelledAt, &cancellationReason,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan booking: %w", err)
	}

	b.PaymentIntentID = paymentIntentID.String
	b.CancellationReason = cancellationReason.String
	if confirmedAt.Valid {
		b.ConfirmedAt = &confirmedAt.Time
	}
	if cancelledAt.Valid {
		b.CancelledAt = &cancelledAt.Time
	}

	return &b, nil
}

func queryBookingSeats(ctx context.Context, q interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}, bookingID uuid.UUID) ([]domain.BookingSeat, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, booking_id, seat_id, price_at_booking
		FROM booking_seats
		WHERE booking_id = $1
	`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("query booking seats: %w", err)
	}
	defer rows.Close()

	var seats []domain.BookingSeat
	for rows.Next() {
		var bs domain.BookingSeat
		if err := rows.Scan(&bs.ID, &bs.BookingID, &bs.SeatID, &bs.PriceAtBooking); err != nil {
			return nil, fmt.Errorf("scan booking seat: %w", err)
		}
		seats = append(seats, bs)
	}

	return seats, rows.Err()
}
