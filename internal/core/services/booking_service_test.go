package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/srgjo27/scalable_ticket/internal/core/domain"
	"github.com/srgjo27/scalable_ticket/internal/core/failure"
	"github.com/srgjo27/scalable_ticket/internal/core/ports"
	"github.com/srgjo27/scalable_ticket/internal/core/ports/mocks"
	"github.com/srgjo27/scalable_ticket/internal/core/services"
)

func TestCreateBooking_Success(t *testing.T) {
	registry := mocks.NewLockRegistry(t)
	store := mocks.NewStoreGateway(t)
	tx := mocks.NewTx(t)
	hook := mocks.NewInvalidationHook(t)

	ctx := context.Background()
	userID, eventID, seatID := uuid.New(), uuid.New(), uuid.New()
	lockID := uuid.New().String()

	event := &domain.Event{
		ID:             eventID,
		BasePrice:      domain.MoneyFromFloat(100),
		MaxCapacity:    10,
		AvailableSeats: 5,
		Status:         domain.EventSalesOpen,
		EventDate:      time.Now().Add(24 * time.Hour),
	}
	seats := []domain.Seat{{ID: seatID, Status: domain.SeatAvailable, PriceModifier: 1}}

	registry.On("Validate", ctx, seatID, userID, lockID).Return(true, nil).Twice()
	store.On("BeginTx", ctx).Return(tx, nil)
	tx.On("FindEventForUpdate", ctx, eventID).Return(event, nil)
	tx.On("FindSeatsForUpdate", ctx, []uuid.UUID{seatID}).Return(seats, nil)
	tx.On("InsertBooking", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
	tx.On("InsertBookingSeats", ctx, mock.AnythingOfType("[]domain.BookingSeat")).Return(nil)
	tx.On("UpdateEventInventory", ctx, eventID, -1).Return(true, nil)
	tx.On("UpdateSeatStatusBatch", ctx, []uuid.UUID{seatID}, domain.SeatBooked).Return(nil)
	tx.On("Commit").Return(nil)
	registry.On("Release", ctx, seatID, userID, lockID).Return(nil)
	hook.On("Invalidate", ctx, eventID, ports.ScopeSeatAvailability).Return()

	svc := services.NewBookingService(registry, store, hook)

	booking, err := svc.CreateBooking(ctx, services.CreateBookingRequest{
		UserID:  userID,
		EventID: eventID,
		SeatIDs: []uuid.UUID{seatID},
		LockIDs: []string{lockID},
	})

	assert.NoError(t, err)
	if assert.NotNil(t, booking) {
		assert.Equal(t, domain.MoneyFromFloat(100), booking.TotalPrice)
		assert.Equal(t, domain.BookingPending, booking.Status)
	}
}

func TestCreateBooking_InvalidRequest_EmptySeats(t *testing.T) {
	registry := mocks.NewLockRegistry(t)
	store := mocks.NewStoreGateway(t)
	hook := mocks.NewInvalidationHook(t)
	svc := services.NewBookingService(registry, store, hook)

	_, err := svc.CreateBooking(context.Background(), services.CreateBookingRequest{
		UserID:  uuid.New(),
		EventID: uuid.New(),
	})

	assert.Equal(t, failure.InvalidRequest, failure.ReasonOf(err))
}

func TestCreateBooking_InvalidRequest_DuplicateSeats(t *testing.T) {
	registry := mocks.NewLockRegistry(t)
	store := mocks.NewStoreGateway(t)
	hook := mocks.NewInvalidationHook(t)
	svc := services.NewBookingService(registry, store, hook)

	seatID := uuid.New()
	_, err := svc.CreateBooking(context.Background(), services.CreateBookingRequest{
		UserID:  uuid.New(),
		EventID: uuid.New(),
		SeatIDs: []uuid.UUID{seatID, seatID},
		LockIDs: []string{"a", "b"},
	})

	assert.Equal(t, failure.InvalidRequest, failure.ReasonOf(err))
}

// Mirrors spec §8 scenario 4: a partial lock invalid (one of two seat
// locks has expired) must roll back everything and leave inventory
// untouched.
func TestCreateBooking_PartialLockInvalid_RollsBackEverything(t *testing.T) {
	registry := mocks.NewLockRegistry(t)
	store := mocks.NewStoreGateway(t)
	hook := mocks.NewInvalidationHook(t)

	ctx := context.Background()
	userID, eventID := uuid.New(), uuid.New()
	seatID1, seatID2 := uuid.New(), uuid.New()
	lockID1, lockID2 := uuid.New().String(), uuid.New().String()

	registry.On("Validate", ctx, seatID1, userID, lockID1).Return(true, nil)
	registry.On("Validate", ctx, seatID2, userID, lockID2).Return(false, nil)

	svc := services.NewBookingService(registry, store, hook)

	_, err := svc.CreateBooking(ctx, services.CreateBookingRequest{
		UserID:  userID,
		EventID: eventID,
		SeatIDs: []uuid.UUID{seatID1, seatID2},
		LockIDs: []string{lockID1, lockID2},
	})

	assert.Equal(t, failure.InvalidLocks, failure.ReasonOf(err))
	store.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestCreateBooking_EventNotFound(t *testing.T) {
	registry := mocks.NewLockRegistry(t)
	store := mocks.NewStoreGateway(t)
	tx := mocks.NewTx(t)
	hook := mocks.NewInvalidationHook(t)

	ctx := context.Background()
	userID, eventID, seatID := uuid.New(), uuid.New(), uuid.New()
	lockID := uuid.New().String()

	registry.On("Validate", ctx, seatID, userID, lockID).Return(true, nil).Once()
	store.On("BeginTx", ctx).Return(tx, nil)
	tx.On("FindEventForUpdate", ctx, eventID).Return((*domain.Event)(nil), nil)
	tx.On("Rollback").Return(nil)

	svc := services.NewBookingService(registry, store, hook)

	_, err := svc.CreateBooking(ctx, services.CreateBookingRequest{
		UserID:  userID,
		EventID: eventID,
		SeatIDs: []uuid.UUID{seatID},
		LockIDs: []string{lockID},
	})

	assert.Equal(t, failure.EventNotFound, failure.ReasonOf(err))
}

func TestCreateBooking_SalesClosed_EventNotOnSale(t *testing.T) {
	registry := mocks.NewLockRegistry(t)
	store := mocks.NewStoreGateway(t)
	tx := mocks.NewTx(t)
	hook := mocks.NewInvalidationHook(t)

	ctx := context.Background()
	userID, eventID, seatID := uuid.New(), uuid.New(), uuid.New()
	lockID := uuid.New().String()

	event := &domain.Event{
		ID:             eventID,
		AvailableSeats: 5,
		MaxCapacity:    10,
		Status:         domain.EventSalesClosed,
		EventDate:      time.Now().Add(24 * time.Hour),
	}

	registry.On("Validate", ctx, seatID, userID, lockID).Return(true, nil).Once()
	store.On("BeginTx", ctx).Return(tx, nil)
	tx.On("FindEventForUpdate", ctx, eventID).Return(event, nil)
	tx.On("Rollback").Return(nil)

	svc := services.NewBookingService(registry, store, hook)

	_, err := svc.CreateBooking(ctx, services.CreateBookingRequest{
		UserID:  userID,
		EventID: eventID,
		SeatIDs: []uuid.UUID{seatID},
		LockIDs: []string{lockID},
	})

	assert.Equal(t, failure.SalesClosed, failure.ReasonOf(err))
}

func TestCreateBooking_SeatsNotAvailable(t *testing.T) {
	registry := mocks.NewLockRegistry(t)
	store := mocks.NewStoreGateway(t)
	tx := mocks.NewTx(t)
	hook := mocks.NewInvalidationHook(t)

	ctx := context.Background()
	userID, eventID, seatID := uuid.New(), uuid.New(), uuid.New()
	lockID := uuid.New().String()

	event := &domain.Event{
		ID:             eventID,
		AvailableSeats: 5,
		MaxCapacity:    10,
		Status:         domain.EventSalesOpen,
		EventDate:      time.Now().Add(24 * time.Hour),
	}
	seats := []domain.Seat{{ID: seatID, Status: domain.SeatBooked}}

	registry.On("Validate", ctx, seatID, userID, lockID).Return(true, nil).Once()
	store.On("BeginTx", ctx).Return(tx, nil)
	tx.On("FindEventForUpdate", ctx, eventID).Return(event, nil)
	tx.On("FindSeatsForUpdate", ctx, []uuid.UUID{seatID}).Return(seats, nil)
	tx.On("Rollback").Return(nil)

	svc := services.NewBookingService(registry, store, hook)

	_, err := svc.CreateBooking(ctx, services.CreateBookingRequest{
		UserID:  userID,
		EventID: eventID,
		SeatIDs: []uuid.UUID{seatID},
		LockIDs: []string{lockID},
	})

	assert.Equal(t, failure.SeatsNotAvailable, failure.ReasonOf(err))
}

// Mirrors spec §8 scenario 5: valid locks but the conditional inventory
// decrement affects zero rows (capacity/seat-set drift) must surface as
// SALES_CLOSED, not a silent oversell.
func TestCreateBooking_InventoryDrift_SurfacesAsSalesClosed(t *testing.T) {
	registry := mocks.NewLockRegistry(t)
	store := mocks.NewStoreGateway(t)
	tx := mocks.NewTx(t)
	hook := mocks.NewInvalidationHook(t)

	ctx := context.Background()
	userID, eventID, seatID := uuid.New(), uuid.New(), uuid.New()
	lockID := uuid.New().String()

	event := &domain.Event{
		ID:             eventID,
		BasePrice:      domain.MoneyFromFloat(50),
		AvailableSeats: 1,
		MaxCapacity:    10,
		Status:         domain.EventSalesOpen,
		EventDate:      time.Now().Add(24 * time.Hour),
	}
	seats := []domain.Seat{{ID: seatID, Status: domain.SeatAvailable, PriceModifier: 1}}

	registry.On("Validate", ctx, seatID, userID, lockID).Return(true, nil).Twice()
	store.On("BeginTx", ctx).Return(tx, nil)
	tx.On("FindEventForUpdate", ctx, eventID).Return(event, nil)
	tx.On("FindSeatsForUpdate", ctx, []uuid.UUID{seatID}).Return(seats, nil)
	tx.On("InsertBooking", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
	tx.On("InsertBookingSeats", ctx, mock.AnythingOfType("[]domain.BookingSeat")).Return(nil)
	tx.On("UpdateEventInventory", ctx, eventID, -1).Return(false, nil)
	tx.On("Rollback").Return(nil)

	svc := services.NewBookingService(registry, store, hook)

	_, err := svc.CreateBooking(ctx, services.CreateBookingRequest{
		UserID:  userID,
		EventID: eventID,
		SeatIDs: []uuid.UUID{seatID},
		LockIDs: []string{lockID},
	})

	assert.Equal(t, failure.SalesClosed, failure.ReasonOf(err))
}

func TestConfirmBooking_AlreadyConfirmed_ReturnsInvalidStatus(t *testing.T) {
	registry := mocks.NewLockRegistry(t)
	store := mocks.NewStoreGateway(t)
	tx := mocks.NewTx(t)
	hook := mocks.NewInvalidationHook(t)

	ctx := context.Background()
	bookingID := uuid.New()
	now := time.Now()
	booking := &domain.Booking{
		ID:              bookingID,
		Status:          domain.BookingConfirmed,
		PaymentIntentID: "pi_123",
		ConfirmedAt:     &now,
	}

	store.On("BeginTx", ctx).Return(tx, nil)
	tx.On("FindBookingForUpdate", ctx, bookingID).Return(booking, nil)
	tx.On("Rollback").Return(nil)

	svc := services.NewBookingService(registry, store, hook)

	_, err := svc.ConfirmBooking(ctx, bookingID, "pi_123")

	assert.Equal(t, failure.InvalidStatus, failure.ReasonOf(err))
}

func TestCancelBooking_AlreadyCancelled_ReturnsAlreadyCancelled(t *testing.T) {
	registry := mocks.NewLockRegistry(t)
	store := mocks.NewStoreGateway(t)
	tx := mocks.NewTx(t)
	hook := mocks.NewInvalidationHook(t)

	ctx := context.Background()
	bookingID, userID := uuid.New(), uuid.New()
	booking := &domain.Booking{ID: bookingID, UserID: userID, Status: domain.BookingCancelled}

	store.On("BeginTx", ctx).Return(tx, nil)
	tx.On("FindBookingForUpdate", ctx, bookingID).Return(booking, nil)
	tx.On("Rollback").Return(nil)

	svc := services.NewBookingService(registry, store, hook)

	_, err := svc.CancelBooking(ctx, bookingID, userID, "changed my mind")

	assert.Equal(t, failure.AlreadyCancelled, failure.ReasonOf(err))
}

// Mirrors spec §8 scenario 1: two callers racing to lock the same seat
// must not both win. The registry is the arbiter; the coordinator's
// AcquireLock surfaces the registry's ErrAlreadyLocked as InvalidLocks
// for the loser rather than a generic system error.
func TestAcquireLock_RaceOnSameSeat_LoserGetsInvalidLocks(t *testing.T) {
	registry := mocks.NewLockRegistry(t)
	store := mocks.NewStoreGateway(t)
	hook := mocks.NewInvalidationHook(t)

	ctx := context.Background()
	seatID, eventID, winner, loser := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	registry.On("Acquire", ctx, seatID, eventID, winner).
		Return(ports.LockResult{LockID: uuid.New().String(), ExpiresAt: time.Now().Add(5 * time.Minute)}, nil)
	registry.On("Acquire", ctx, seatID, eventID, loser).
		Return(ports.LockResult{}, ports.ErrAlreadyLocked)

	svc := services.NewBookingService(registry, store, hook)

	winnerResult, err := svc.AcquireLock(ctx, seatID, eventID, winner)
	assert.NoError(t, err)
	assert.NotEmpty(t, winnerResult.LockID)

	_, err = svc.AcquireLock(ctx, seatID, eventID, loser)
	assert.Equal(t, failure.InvalidLocks, failure.ReasonOf(err))
}

// Mirrors spec §8 scenario 2: a lock whose TTL has elapsed must not
// block a fresh acquire for a different caller. The registry adapter
// owns the actual TTL check (internal/adapter/registry/redis); here we
// confirm the coordinator treats a successful post-expiry Acquire as
// an ordinary success, not as contending with the original holder.
func TestAcquireLock_AfterTTLExpiry_NewOwnerSucceeds(t *testing.T) {
	registry := mocks.NewLockRegistry(t)
	store := mocks.NewStoreGateway(t)
	hook := mocks.NewInvalidationHook(t)

	ctx := context.Background()
	seatID, eventID, newOwner := uuid.New(), uuid.New(), uuid.New()

	registry.On("Acquire", ctx, seatID, eventID, newOwner).
		Return(ports.LockResult{LockID: uuid.New().String(), ExpiresAt: time.Now().Add(5 * time.Minute)}, nil)

	svc := services.NewBookingService(registry, store, hook)

	result, err := svc.AcquireLock(ctx, seatID, eventID, newOwner)

	assert.NoError(t, err)
	assert.NotEmpty(t, result.LockID)
}

func TestCancelBooking_Success_RestoresInventoryAndSeats(t *testing.T) {
	registry := mocks.NewLockRegistry(t)
	store := mocks.NewStoreGateway(t)
	tx := mocks.NewTx(t)
	hook := mocks.NewInvalidationHook(t)

	ctx := context.Background()
	bookingID, userID, eventID := uuid.New(), uuid.New(), uuid.New()
	seatID1, seatID2 := uuid.New(), uuid.New()

	booking := &domain.Booking{ID: bookingID, UserID: userID, EventID: eventID, Status: domain.BookingConfirmed}
	seats := []domain.BookingSeat{{SeatID: seatID1}, {SeatID: seatID2}}

	store.On("BeginTx", ctx).Return(tx, nil)
	tx.On("FindBookingForUpdate", ctx, bookingID).Return(booking, nil)
	tx.On("FindBookingSeats", ctx, bookingID).Return(seats, nil)
	tx.On("UpdateBookingStatus", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
	tx.On("UpdateSeatStatusBatch", ctx, []uuid.UUID{seatID1, seatID2}, domain.SeatAvailable).Return(nil)
	tx.On("UpdateEventInventory", ctx, eventID, 2).Return(true, nil)
	tx.On("Commit").Return(nil)
	hook.On("Invalidate", ctx, eventID, ports.ScopeSeatAvailability).Return()

	svc := services.NewBookingService(registry, store, hook)

	booking, err := svc.CancelBooking(ctx, bookingID, userID, "refund requested")

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, booking.Status)
}
