package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/srgjo27/scalable_ticket/internal/core/domain"
	"github.com/srgjo27/scalable_ticket/internal/core/ports"
)

type StoreGateway struct {
	mock.Mock
}

func NewStoreGateway(t *testing.T) *StoreGateway {
	m := &StoreGateway{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *StoreGateway) BeginTx(ctx context.Context) (ports.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(ports.Tx)
	return tx, args.Error(1)
}

func (m *StoreGateway) FindBookingByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

func (m *StoreGateway) ListAvailableSeats(ctx context.Context, eventID uuid.UUID) ([]domain.Seat, error) {
	args := m.Called(ctx, eventID)
	seats, _ := args.Get(0).([]domain.Seat)
	return seats, args.Error(1)
}

func (m *StoreGateway) FindExpiredPendingBookings(ctx context.Context, olderThan time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, olderThan)
	ids, _ := args.Get(0).([]uuid.UUID)
	return ids, args.Error(1)
}

type Tx struct {
	mock.Mock
}

func NewTx(t *testing.T) *Tx {
	m := &Tx{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Tx) FindEventForUpdate(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	args := m.Called(ctx, eventID)
	e, _ := args.Get(0).(*domain.Event)
	return e, args.Error(1)
}

func (m *Tx) FindSeatsForUpdate(ctx context.Context, seatIDs []uuid.UUID) ([]domain.Seat, error) {
	args := m.Called(ctx, seatIDs)
	seats, _ := args.Get(0).([]domain.Seat)
	return seats, args.Error(1)
}

func (m *Tx) InsertBooking(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *Tx) InsertBookingSeats(ctx context.Context, seats []domain.BookingSeat) error {
	args := m.Called(ctx, seats)
	return args.Error(0)
}

func (m *Tx) UpdateEventInventory(ctx context.Context, eventID uuid.UUID, delta int) (bool, error) {
	args := m.Called(ctx, eventID, delta)
	return args.Bool(0), args.Error(1)
}

func (m *Tx) UpdateSeatStatusBatch(ctx context.Context, seatIDs []uuid.UUID, status domain.SeatStatus) error {
	args := m.Called(ctx, seatIDs, status)
	return args.Error(0)
}

func (m *Tx) FindBookingForUpdate(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

func (m *Tx) UpdateBookingStatus(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *Tx) FindBookingSeats(ctx context.Context, bookingID uuid.UUID) ([]domain.BookingSeat, error) {
	args := m.Called(ctx, bookingID)
	seats, _ := args.Get(0).([]domain.BookingSeat)
	return seats, args.Error(1)
}

func (m *Tx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *Tx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}
