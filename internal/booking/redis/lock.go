package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// SeatLock holds short-lived seat reservations while a booking is in
// flight. Keys are scoped by tenant and trip so the same seat number
// on different trips or operators never collides.
type SeatLock struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewSeatLock(client *redis.Client, ttl time.Duration) *SeatLock {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SeatLock{Client: client, TTL: ttl}
}

func seatKey(tenantKey string, tripID int64, seatNo int) string {
	return fmt.Sprintf("seat_lock:%s:%d:%d", tenantKey, tripID, seatNo)
}

// LockSeat takes the seat for the given owner. Returns false when
// another booking already holds it.
func (s *SeatLock) LockSeat(ctx context.Context, tenantKey string, tripID int64, seatNo int, owner string) (bool, error) {
	return s.Client.SetNX(ctx, seatKey(tenantKey, tripID, seatNo), owner, s.TTL).Result()
}

// UnlockSeat releases the seat if this owner still holds it. Releasing
// a lock someone else took over (after expiry) is a no-op.
func (s *SeatLock) UnlockSeat(ctx context.Context, tenantKey string, tripID int64, seatNo int, owner string) error {
	key := seatKey(tenantKey, tripID, seatNo)
	val, err := s.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	if val == owner {
		_, err = s.Client.Del(ctx, key).Result()
		return err
	}
	return nil
}

// SeatLocked reports whether any booking currently holds the seat.
func (s *SeatLock) SeatLocked(ctx context.Context, tenantKey string, tripID int64, seatNo int) (bool, error) {
	_, err := s.Client.Get(ctx, seatKey(tenantKey, tripID, seatNo)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
