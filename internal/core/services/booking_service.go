// Package services implements the booking commit coordinator
// (spec.md §4.C), the heart of the core. It owns no long-lived state:
// every method borrows a transaction scope from the store gateway for
// the duration of a single call and releases it before returning.
package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/srgjo27/scalable_ticket/internal/core/domain"
	"github.com/srgjo27/scalable_ticket/internal/core/failure"
	"github.com/srgjo27/scalable_ticket/internal/core/ports"
)

type CreateBookingRequest struct {
	UserID          uuid.UUID
	EventID         uuid.UUID
	SeatIDs         []uuid.UUID
	LockIDs         []string
	PaymentIntentID string
}

type BookingService struct {
	registry     ports.LockRegistry
	store        ports.StoreGateway
	invalidation ports.InvalidationHook
}

// NewBookingService wires the coordinator to its two collaborators
// plus the invalidation hook, via explicit constructor injection —
// no container, no global singletons (spec.md §9).
func NewBookingService(registry ports.LockRegistry, store ports.StoreGateway, invalidation ports.InvalidationHook) *BookingService {
	return &BookingService{registry: registry, store: store, invalidation: invalidation}
}

// CreateBooking is the spec's commit operation (§4.C).
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	// Step 1: pre-validate every lock in parallel, outside the
	// transaction. This is an optimisation only — see step 5 for the
	// authoritative re-check.
	if err := s.preValidateLocks(ctx, req); err != nil {
		return nil, err
	}

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

	event, err := tx.FindEventForUpdate(ctx, req.EventID)
	if err != nil {
		return nil, failure.New(failure.SystemError, err)
	}
	if event == nil {
		return nil, failure.New(failure.EventNotFound, nil)
	}
	if !event.CanPurchaseTickets(time.Now()) {
		return nil, failure.New(failure.SalesClosed, nil)
	}

	seats, err := tx.FindSeatsForUpdate(ctx, req.SeatIDs)
	if err != nil {
		return nil, failure.New(failure.SystemError, err)
	}
	if len(seats) != len(req.SeatIDs) {
		return nil, failure.New(failure.SeatsNotFound, nil)
	}
	for _, seat := range seats {
		if !seat.IsAvailable() {
			return nil, failure.New(failure.SeatsNotAvailable, nil)
		}
	}

	// Step 5: re-validate locks against the registry with the
	// transaction already open, narrowing the race window to the
	// transaction's own duration.
	if err := s.revalidateLocks(ctx, req); err != nil {
		return nil, err
	}

	booking, bookingSeats, err := priceBooking(req, event, seats)
	if err != nil {
		return nil, failure.New(failure.SystemError, err)
	}

	if err := tx.InsertBooking(ctx, booking); err != nil {
		return nil, failure.New(failure.SystemError, err)
	}
	if err := tx.InsertBookingSeats(ctx, bookingSeats); err != nil {
		return nil, failure.New(failure.SystemError, err)
	}

	ok, err := tx.UpdateEventInventory(ctx, req.EventID, -len(req.SeatIDs))
	if err != nil {
		return nil, failure.New(failure.SystemError, err)
	}
	if !ok {
		log.Printf("WARN: inventory decrement affected zero rows for event %s despite valid locks; capacity/seat-set drift", req.EventID)
		return nil, failure.New(failure.SalesClosed, nil)
	}

	if err := tx.UpdateSeatStatusBatch(ctx, req.SeatIDs, domain.SeatBooked); err != nil {
		return nil, failure.New(failure.SystemError, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, failure.New(failure.SystemError, err)
	}
	committed = true

	booking.Seats = bookingSeats
	s.releaseLocksBestEffort(ctx, req)
	s.invalidation.Invalidate(ctx, req.EventID, ports.ScopeSeatAvailability)

	return booking, nil
}

func validateCreateRequest(req CreateBookingRequest) error {
	if len(req.SeatIDs) == 0 || len(req.SeatIDs) != len(req.LockIDs) {
		return failure.New(failure.InvalidRequest, nil)
	}
	if len(lo.Uniq(req.SeatIDs)) != len(req.SeatIDs) {
		return failure.New(failure.InvalidRequest, nil)
	}
	return nil
}

func (s *BookingService) preValidateLocks(ctx context.Context, req CreateBookingRequest) error {
	var eg errgroup.Group
	for i := range req.SeatIDs {
		seatID, lockID := req.SeatIDs[i], req.LockIDs[i]
		eg.Go(func() error {
			ok, err := s.registry.Validate(ctx, seatID, req.UserID, lockID)
			if err != nil {
				return err
			}
			if !ok {
				return ports.ErrInvalidLock
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		if err == ports.ErrInvalidLock {
			return failure.New(failure.InvalidLocks, nil)
		}
		return failure.New(failure.SystemError, err)
	}
	return nil
}

// revalidateLocks is the same check as preValidateLocks but run
// sequentially inside the open transaction — parallelism here would
// buy nothing since the transaction already serializes this call
// against the rest of the commit.
func (s *BookingService) revalidateLocks(ctx context.Context, req CreateBookingRequest) error {
	for i := range req.SeatIDs {
		ok, err := s.registry.Validate(ctx, req.SeatIDs[i], req.UserID, req.LockIDs[i])
		if err != nil {
			return failure.New(failure.SystemError, err)
		}
		if !ok {
			return failure.New(failure.InvalidLocks, nil)
		}
	}
	return nil
}

func (s *BookingService) releaseLocksBestEffort(ctx context.Context, req CreateBookingRequest) {
	for i := range req.SeatIDs {
		if err := s.registry.Release(ctx, req.SeatIDs[i], req.UserID, req.LockIDs[i]); err != nil {
			log.Printf("lock release failed for seat %s (non-fatal, TTL will reclaim): %v", req.SeatIDs[i], err)
		}
	}
}

func priceBooking(req CreateBookingRequest, event *domain.Event, seats []domain.Seat) (*domain.Booking, []domain.BookingSeat, error) {
	seatByID := lo.KeyBy(seats, func(s domain.Seat) uuid.UUID { return s.ID })

	modifiers := make([]domain.PriceModifier, len(req.SeatIDs))
	for i, id := range req.SeatIDs {
		modifiers[i] = seatByID[id].PriceModifier
	}
	totalPrice := domain.SumSeatPrices(event.BasePrice, modifiers)

	bookingID := uuid.New()
	now := time.Now()

	bookingSeats := make([]domain.BookingSeat, len(req.SeatIDs))
	for i, id := range req.SeatIDs {
		bookingSeats[i] = domain.BookingSeat{
			ID:             uuid.New(),
			BookingID:      bookingID,
			SeatID:         id,
			PriceAtBooking: domain.MoneyFromFloat(event.BasePrice.Float64() * float64(seatByID[id].PriceModifier)),
		}
	}

	booking := &domain.Booking{
		ID:              bookingID,
		UserID:          req.UserID,
		EventID:         req.EventID,
		TotalPrice:      totalPrice,
		Status:          domain.BookingPending,
		PaymentIntentID: req.PaymentIntentID,
		BookingDate:     now,
	}

	return booking, bookingSeats, nil
}
