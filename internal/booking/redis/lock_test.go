package redis_test

import (
	"context"
	"testing"
	"time"

	seatredis "ms-reservation/internal/booking/redis"

	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestSeatLockIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}

	ctx := context.Background()
	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:latest",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	defer redisContainer.Terminate(ctx)

	host, err := redisContainer.Host(ctx)
	require.NoError(t, err)
	port, err := redisContainer.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: host + ":" + port.Port()})
	defer client.Close()

	lock := seatredis.NewSeatLock(client, time.Minute)

	locked, err := lock.LockSeat(ctx, "north", 1, 4, "PNR001")
	require.NoError(t, err)
	assert.True(t, locked)

	// A second booking cannot take the held seat.
	locked, err = lock.LockSeat(ctx, "north", 1, 4, "PNR002")
	require.NoError(t, err)
	assert.False(t, locked)

	// Same seat number on another tenant or trip is a different lock.
	locked, err = lock.LockSeat(ctx, "south", 1, 4, "PNR003")
	require.NoError(t, err)
	assert.True(t, locked)
	locked, err = lock.LockSeat(ctx, "north", 2, 4, "PNR004")
	require.NoError(t, err)
	assert.True(t, locked)

	// Only the owner can release.
	require.NoError(t, lock.UnlockSeat(ctx, "north", 1, 4, "PNR002"))
	held, err := lock.SeatLocked(ctx, "north", 1, 4)
	require.NoError(t, err)
	assert.True(t, held)

	require.NoError(t, lock.UnlockSeat(ctx, "north", 1, 4, "PNR001"))
	held, err = lock.SeatLocked(ctx, "north", 1, 4)
	require.NoError(t, err)
	assert.False(t, held)

	// Unlocking a free seat is a no-op.
	require.NoError(t, lock.UnlockSeat(ctx, "north", 1, 4, "PNR001"))
}
