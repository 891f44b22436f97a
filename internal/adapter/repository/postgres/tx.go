package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/srgjo27/scalable_ticket/internal/core/domain"
)

type txImpl struct {
	tx *sql.Tx
}

func (t *txImpl) FindEventForUpdate(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	var e domain.Event
	var basePriceCents int64

	err := t.tx.QueryRowContext(ctx, `
		SELECT id, venue_id, event_date, base_price, max_capacity, available_seats, status
		FROM events
		WHERE id = $1
		FOR UPDATE
	`, eventID).Scan(&e.ID, &e.VenueID, &e.EventDate, &basePriceCents, &e.MaxCapacity, &e.AvailableSeats, &e.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find event for update: %w", err)
	}

	e.BasePrice = domain.Money(basePriceCents)
	return &e, nil
}

// FindSeatsForUpdate locks the requested seat rows in a deterministic
// order (lexicographic on seat_id, per spec.md §5) so two commits
// whose seat sets overlap cannot deadlock against each other.
func (t *txImpl) FindSeatsForUpdate(ctx context.Context, seatIDs []uuid.UUID) ([]domain.Seat, error) {
	sorted := sortedUUIDs(seatIDs)

	rows, err := t.tx.QueryContext(ctx, `
		SELECT id, venue_id, section, row, number, type, status, price_modifier
		FROM seats
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`, pq.Array(uuidStrings(sorted)))
	if err != nil {
		return nil, fmt.Errorf("find seats for update: %w", err)
	}
	defer rows.Close()

	var seats []domain.Seat
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.ID, &s.VenueID, &s.Section, &s.Row, &s.Number, &s.Type, &s.Status, &s.PriceModifier); err != nil {
			return nil, fmt.Errorf("scan seat for update: %w", err)
		}
		seats = append(seats, s)
	}

	return seats, rows.Err()
}

func (t *txImpl) InsertBooking(ctx context.Context, booking *domain.Booking) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO bookings (id, user_id, event_id, total_price, status, payment_intent_id, booking_date, confirmed_at, cancelled_at, cancellation_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, booking.ID, booking.UserID, booking.EventID, int64(booking.TotalPrice), booking.Status,
		nullableString(booking.PaymentIntentID), booking.BookingDate, booking.ConfirmedAt, booking.CancelledAt,
		nullableString(booking.CancellationReason))
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (t *txImpl) InsertBookingSeats(ctx context.Context, seats []domain.BookingSeat) error {
	stmt, err := t.tx.PrepareContext(ctx, `
		INSERT INTO booking_seats (id, booking_id, seat_id, price_at_booking)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return fmt.Errorf("prepare booking seat insert: %w", err)
	}
	defer stmt.Close()

	for _, bs := range seats {
		if _, err := stmt.ExecContext(ctx, bs.ID, bs.BookingID, bs.SeatID, int64(bs.PriceAtBooking)); err != nil {
			return fmt.Errorf("insert booking seat %s: %w", bs.SeatID, err)
		}
	}

	return nil
}

// UpdateEventInventory applies the atomic decrement (delta < 0) or
// increment (delta > 0) described in spec.md §4.B:
//
//	UPDATE events SET available_seats = available_seats + delta
//	WHERE id = ? AND available_seats + delta BETWEEN 0 AND max_capacity
func (t *txImpl) UpdateEventInventory(ctx context.Context, eventID uuid.UUID, delta int) (bool, error) {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE events
		SET available_seats = available_seats + $1
		WHERE id = $2
		  AND available_seats + $1 >= 0
		  AND available_seats + $1 <= max_capacity
	`, delta, eventID)
	if err != nil {
		return false, fmt.Errorf("update event inventory: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update event inventory rows affected: %w", err)
	}

	return n > 0, nil
}

func (t *txImpl) UpdateSeatStatusBatch(ctx context.Context, seatIDs []uuid.UUID, status domain.SeatStatus) error {
	_, err := t.tx.ExecContext(ctx, `
		UPDATE seats SET status = $1 WHERE id = ANY($2)
	`, status, pq.Array(uuidStrings(seatIDs)))
	if err != nil {
		return fmt.Errorf("update seat status batch: %w", err)
	}
	return nil
}

func (t *txImpl) FindBookingForUpdate(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	row := t.tx.QueryRowContext(ctx, bookingSelectQuery+" FOR UPDATE", bookingID)
	return scanBooking(row)
}

func (t *txImpl) UpdateBookingStatus(ctx context.Context, booking *domain.Booking) error {
	_, err := t.tx.ExecContext(ctx, `
		UPDATE bookings
		SET status = $1, confirmed_at = $2, cancelled_at = $3, cancellation_reason = $4
		WHERE id = $5
	`, booking.Status, booking.ConfirmedAt, booking.CancelledAt, nullableString(booking.CancellationReason), booking.ID)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	return nil
}

func (t *txImpl) FindBookingSeats(ctx context.Context, bookingID uuid.UUID) ([]domain.BookingSeat, error) {
	return queryBookingSeats(ctx, t.tx, bookingID)
}

func (t *txImpl) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (t *txImpl) Rollback() error {
	err := t.tx.Rollback()
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback tx: %w", err)
	}
	return nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
