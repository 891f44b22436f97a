package domain

import (
	"time"

	"github.com/google/uuid"
)

// SeatLock is the wire shape of a single item in the lock registry. It
// never persists in the durable store; it exists only for the lifetime
// of the lease, serialized as JSON by the registry adapter.
type SeatLock struct {
	SeatID    uuid.UUID `json:"seat_id"`
	EventID   uuid.UUID `json:"event_id"`
	UserID    uuid.UUID `json:"user_id"`
	LockID    string    `json:"lock_id"`
	CreatedAt int64     `json:"created_at"`
	ExpiresAt int64     `json:"expires_at"`
}

func (l *SeatLock) IsExpired(now time.Time) bool {
	return l.ExpiresAt <= now.UnixMilli()
}
