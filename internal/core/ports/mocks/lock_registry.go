// Code generated in the style of mockery, hand-written for this repo to
// match the teacher's internal/core/ports/mocks package (referenced by
// its booking_service_test.go as mocks.NewSeatRepository(t)).
package mocks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/srgjo27/scalable_ticket/internal/core/ports"
)

type LockRegistry struct {
	mock.Mock
}

func NewLockRegistry(t *testing.T) *LockRegistry {
	m := &LockRegistry{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *LockRegistry) Acquire(ctx context.Context, seatID, eventID, userID uuid.UUID) (ports.LockResult, error) {
	args := m.Called(ctx, seatID, eventID, userID)
	res, _ := args.Get(0).(ports.LockResult)
	return res, args.Error(1)
}

func (m *LockRegistry) Extend(ctx context.Context, seatID, eventID, userID uuid.UUID, lockID string) (ports.LockResult, error) {
	args := m.Called(ctx, seatID, eventID, userID, lockID)
	res, _ := args.Get(0).(ports.LockResult)
	return res, args.Error(1)
}

func (m *LockRegistry) Release(ctx context.Context, seatID, userID uuid.UUID, lockID string) error {
	args := m.Called(ctx, seatID, userID, lockID)
	return args.Error(0)
}

func (m *LockRegistry) IsLocked(ctx context.Context, seatID uuid.UUID) (bool, error) {
	args := m.Called(ctx, seatID)
	return args.Bool(0), args.Error(1)
}

func (m *LockRegistry) Validate(ctx context.Context, seatID, userID uuid.UUID, lockID string) (bool, error) {
	args := m.Called(ctx, seatID, userID, lockID)
	return args.Bool(0), args.Error(1)
}

func (m *LockRegistry) ReapExpired(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
