package trips_test

import (
	"context"
	"testing"

	"ms-reservation/internal/domain"
	"ms-reservation/internal/models"
	"ms-reservation/internal/store"
	"ms-reservation/internal/tenant"
	"ms-reservation/internal/trips"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func poolForStore(t *testing.T, key string, s *store.Store) *tenant.Pool {
	t.Helper()
	registry, err := tenant.NewRegistry([]models.Tenant{{Key: key, DSN: "sqlite://" + key}})
	require.NoError(t, err)
	opener := func(ctx context.Context, tn models.Tenant) (*store.Store, error) {
		return s, nil
	}
	return tenant.NewPool(registry, opener, nil)
}

func TestServiceSearchValidation(t *testing.T) {
	svc := trips.NewService(nil, nil)
	ctx := context.Background()

	cases := []struct {
		name   string
		origin int64
		dest   int64
		date   string
	}{
		{"missing origin", 0, 2, "2024-05-01"},
		{"missing destination", 1, 0, "2024-05-01"},
		{"same place", 1, 1, "2024-05-01"},
		{"bad date", 1, 2, "01-05-2024"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Search(ctx, "north", tc.origin, tc.dest, tc.date)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))
		})
	}
}

func TestServiceSearchEnrichesMatches(t *testing.T) {
	s := setupTestStore(t)
	seedNetwork(t, s)
	insert(t, s, &models.Price{FromStopID: 10, ToStopID: 20, Amount: 90000})

	svc := trips.NewService(poolForStore(t, "north", s), nil)

	summaries, err := svc.Search(context.Background(), "north", 1, 2, "2024-05-01")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "08:00:00", summaries[0].Departure)
	assert.Equal(t, int64(90000), summaries[0].Fare)

	_, err = svc.Search(context.Background(), "nowhere", 1, 2, "2024-05-01")
	assert.True(t, domain.IsTenantNotFound(err))
}
