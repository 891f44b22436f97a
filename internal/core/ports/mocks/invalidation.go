package mocks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/srgjo27/scalable_ticket/internal/core/ports"
)

type InvalidationHook struct {
	mock.Mock
}

func NewInvalidationHook(t *testing.T) *InvalidationHook {
	m := &InvalidationHook{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *InvalidationHook) Invalidate(ctx context.Context, eventID uuid.UUID, scope ports.InvalidationScope) {
	m.Called(ctx, eventID, scope)
}
