package tenant_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ms-reservation/internal/domain"
	"ms-reservation/internal/models"
	"ms-reservation/internal/store"
	"ms-reservation/internal/tenant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/sqliteshim"
)

// sqliteOpener opens a fresh in-memory store per call and counts the
// calls, so tests can assert how many handles were really established.
func sqliteOpener(opens *int64) tenant.Opener {
	return func(ctx context.Context, tn models.Tenant) (*store.Store, error) {
		atomic.AddInt64(opens, 1)
		sqldb, err := sql.Open("sqlite", ":memory:")
		if err != nil {
			return nil, err
		}
		sqldb.SetMaxOpenConns(1)
		s := store.New(bun.NewDB(sqldb, sqlitedialect.New()))
		if err := s.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return s, nil
	}
}

func testRegistry(t *testing.T, keys ...string) *tenant.Registry {
	t.Helper()
	tenants := make([]models.Tenant, len(keys))
	for i, k := range keys {
		tenants[i] = models.Tenant{Key: k, DSN: "sqlite://" + k}
	}
	registry, err := tenant.NewRegistry(tenants)
	require.NoError(t, err)
	return registry
}

func TestHandleCachesPerTenant(t *testing.T) {
	var opens int64
	pool := tenant.NewPool(testRegistry(t, "north", "south"), sqliteOpener(&opens), nil)
	defer pool.Reset()
	ctx := context.Background()

	h1, err := pool.Handle(ctx, "north")
	require.NoError(t, err)
	h2, err := pool.Handle(ctx, "north")
	require.NoError(t, err)
	h3, err := pool.Handle(ctx, "south")
	require.NoError(t, err)

	assert.Same(t, h1, h2)
	assert.NotSame(t, h1, h3)
	assert.Equal(t, int64(2), atomic.LoadInt64(&opens))
}

func TestHandleUnknownTenant(t *testing.T) {
	var opens int64
	pool := tenant.NewPool(testRegistry(t, "north"), sqliteOpener(&opens), nil)

	_, err := pool.Handle(context.Background(), "nowhere")
	require.Error(t, err)
	assert.True(t, domain.IsTenantNotFound(err))
	assert.Zero(t, atomic.LoadInt64(&opens))
}

func TestConcurrentFirstCallsCoalesce(t *testing.T) {
	var opens int64
	slowOpen := func(ctx context.Context, tn models.Tenant) (*store.Store, error) {
		time.Sleep(50 * time.Millisecond) // widen the race window
		return sqliteOpener(&opens)(ctx, tn)
	}
	pool := tenant.NewPool(testRegistry(t, "north"), slowOpen, nil)
	defer pool.Reset()

	const callers = 20
	handles := make([]*store.Store, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := pool.Handle(context.Background(), "north")
			assert.NoError(t, err)
			handles[i] = h
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&opens))
	for i := 1; i < callers; i++ {
		assert.Same(t, handles[0], handles[i])
	}
}

func TestFailedOpenIsNotCached(t *testing.T) {
	var opens int64
	var attempts int64
	flaky := func(ctx context.Context, tn models.Tenant) (*store.Store, error) {
		if atomic.AddInt64(&attempts, 1) == 1 {
			return nil, errors.New("store unreachable")
		}
		return sqliteOpener(&opens)(ctx, tn)
	}
	pool := tenant.NewPool(testRegistry(t, "north"), flaky, nil)
	defer pool.Reset()
	ctx := context.Background()

	_, err := pool.Handle(ctx, "north")
	require.Error(t, err)
	assert.True(t, domain.IsTenantConnection(err))

	// The failure was not cached; the next call retries and succeeds.
	h, err := pool.Handle(ctx, "north")
	require.NoError(t, err)
	assert.NotNil(t, h)
	assert.Equal(t, int64(2), atomic.LoadInt64(&attempts))
}

func TestResetDropsCachedHandles(t *testing.T) {
	var opens int64
	pool := tenant.NewPool(testRegistry(t, "north"), sqliteOpener(&opens), nil)
	ctx := context.Background()

	_, err := pool.Handle(ctx, "north")
	require.NoError(t, err)
	pool.Reset()

	_, err = pool.Handle(ctx, "north")
	require.NoError(t, err)
	assert.Equal(t, int64(2), atomic.LoadInt64(&opens))
	pool.Reset()
}
