package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/srgjo27/scalable_ticket/internal/core/domain"
)

func TestIsLocked(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	reg := New(client, "seat-locks", 5*time.Minute)
	seatID := uuid.New()

	mockRedis.ExpectExists(reg.key(seatID)).SetVal(1)

	locked, err := reg.IsLocked(context.Background(), seatID)

	assert.NoError(t, err)
	assert.True(t, locked)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestIsLocked_NotLocked(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	reg := New(client, "seat-locks", 5*time.Minute)
	seatID := uuid.New()

	mockRedis.ExpectExists(reg.key(seatID)).SetVal(0)

	locked, err := reg.IsLocked(context.Background(), seatID)

	assert.NoError(t, err)
	assert.False(t, locked)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestIsLocked_FailsClosedOnTransientError(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	reg := New(client, "seat-locks", 5*time.Minute)
	seatID := uuid.New()

	mockRedis.ExpectExists(reg.key(seatID)).SetErr(assert.AnError)

	locked, err := reg.IsLocked(context.Background(), seatID)

	assert.Error(t, err)
	assert.True(t, locked, "must fail closed on registry errors")
}

func TestValidate_MatchingLiveLock(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	reg := New(client, "seat-locks", 5*time.Minute)

	seatID, eventID, userID := uuid.New(), uuid.New(), uuid.New()
	lockID := uuid.New().String()

	payload, _ := json.Marshal(domain.SeatLock{
		SeatID:    seatID,
		EventID:   eventID,
		UserID:    userID,
		LockID:    lockID,
		CreatedAt: time.Now().UnixMilli(),
		ExpiresAt: time.Now().Add(time.Minute).UnixMilli(),
	})

	mockRedis.ExpectGet(reg.key(seatID)).SetVal(string(payload))

	ok, err := reg.Validate(context.Background(), seatID, userID, lockID)

	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestValidate_ExpiredLockFails(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	reg := New(client, "seat-locks", 5*time.Minute)

	seatID, eventID, userID := uuid.New(), uuid.New(), uuid.New()
	lockID := uuid.New().String()

	payload, _ := json.Marshal(domain.SeatLock{
		SeatID:    seatID,
		EventID:   eventID,
		UserID:    userID,
		LockID:    lockID,
		CreatedAt: time.Now().Add(-time.Hour).UnixMilli(),
		ExpiresAt: time.Now().Add(-time.Minute).UnixMilli(),
	})

	mockRedis.ExpectGet(reg.key(seatID)).SetVal(string(payload))

	ok, err := reg.Validate(context.Background(), seatID, userID, lockID)

	assert.NoError(t, err)
	assert.False(t, ok, "a lock past its recorded expires_at must not validate")
}

func TestValidate_WrongOwnerFails(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	reg := New(client, "seat-locks", 5*time.Minute)

	seatID, eventID, actualOwner, claimedOwner := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	lockID := uuid.New().String()

	payload, _ := json.Marshal(domain.SeatLock{
		SeatID:    seatID,
		EventID:   eventID,
		UserID:    actualOwner,
		LockID:    lockID,
		CreatedAt: time.Now().UnixMilli(),
		ExpiresAt: time.Now().Add(time.Minute).UnixMilli(),
	})

	mockRedis.ExpectGet(reg.key(seatID)).SetVal(string(payload))

	ok, err := reg.Validate(context.Background(), seatID, claimedOwner, lockID)

	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestValidate_NoLockPresent(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	reg := New(client, "seat-locks", 5*time.Minute)
	seatID, userID := uuid.New(), uuid.New()

	mockRedis.ExpectGet(reg.key(seatID)).RedisNil()

	ok, err := reg.Validate(context.Background(), seatID, userID, "anything")

	assert.NoError(t, err)
	assert.False(t, ok)
}

// Mirrors spec §8 scenario 1 at the registry boundary: a lock that is
// still live (recorded expires_at in the future) must not validate for
// a second, different owner — the losing side of a race on the same
// seat never gets treated as holding a good lock.
func TestValidate_RaceOnSameSeat_SecondOwnerNeverValidates(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	reg := New(client, "seat-locks", 5*time.Minute)

	seatID, eventID, winner, loser := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	winnerLockID, loserLockID := uuid.New().String(), uuid.New().String()

	payload, _ := json.Marshal(domain.SeatLock{
		SeatID:    seatID,
		EventID:   eventID,
		UserID:    winner,
		LockID:    winnerLockID,
		CreatedAt: time.Now().UnixMilli(),
		ExpiresAt: time.Now().Add(time.Minute).UnixMilli(),
	})

	mockRedis.ExpectGet(reg.key(seatID)).SetVal(string(payload))

	ok, err := reg.Validate(context.Background(), seatID, loser, loserLockID)

	assert.NoError(t, err)
	assert.False(t, ok, "loser of a race on the same seat must not validate against the winner's key")
}

// Mirrors spec §8 scenario 2: once a lock's recorded expires_at has
// elapsed, a later caller presenting a fresh lock_id for the same seat
// must be able to treat the seat as unlocked again.
func TestValidate_TTLExpired_NewOwnerCanProceed(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	reg := New(client, "seat-locks", 5*time.Minute)

	seatID, eventID, firstOwner := uuid.New(), uuid.New(), uuid.New()
	firstLockID := uuid.New().String()

	expired, _ := json.Marshal(domain.SeatLock{
		SeatID:    seatID,
		EventID:   eventID,
		UserID:    firstOwner,
		LockID:    firstLockID,
		CreatedAt: time.Now().Add(-10 * time.Minute).UnixMilli(),
		ExpiresAt: time.Now().Add(-5 * time.Minute).UnixMilli(),
	})

	mockRedis.ExpectGet(reg.key(seatID)).SetVal(string(expired))
	okFirst, err := reg.Validate(context.Background(), seatID, firstOwner, firstLockID)
	assert.NoError(t, err)
	assert.False(t, okFirst, "the original lock must no longer validate once its TTL has elapsed")

	mockRedis.ExpectExists(reg.key(seatID)).SetVal(0)
	locked, err := reg.IsLocked(context.Background(), seatID)
	assert.NoError(t, err)
	assert.False(t, locked, "an expired lock key must read as unlocked for a second acquirer")

	assert.NoError(t, mockRedis.ExpectationsWereMet())
}
