// Package noop provides an InvalidationHook that discards every call.
// Useful for tests and for environments without a cache fronting the
// durable store.
package noop

import (
	"context"

	"github.com/google/uuid"
	"github.com/srgjo27/scalable_ticket/internal/core/ports"
)

type Hook struct{}

func New() *Hook { return &Hook{} }

func (*Hook) Invalidate(context.Context, uuid.UUID, ports.InvalidationScope) {}
