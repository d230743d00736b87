package trips_test

import (
	"context"
	"testing"

	"ms-reservation/internal/domain"
	"ms-reservation/internal/models"
	"ms-reservation/internal/store"
	"ms-reservation/internal/trips"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findMatch(t *testing.T, s *store.Store, origin, dest int64, date string) models.TripMatch {
	t.Helper()
	matches, err := trips.FindTrips(context.Background(), s, origin, dest, date)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	return matches[0]
}

func TestEnrichFullRoute(t *testing.T) {
	s := setupTestStore(t)
	seedNetwork(t, s)
	ctx := context.Background()

	insert(t, s, &models.Price{FromStopID: 10, ToStopID: 20, Amount: 150000})

	summary, err := trips.Enrich(ctx, s, findMatch(t, s, 1, 2, "2024-05-01"))
	require.NoError(t, err)

	// Boarding at the first stop: scheduled departure, full travel time.
	assert.Equal(t, "08:00:00", summary.Departure)
	assert.Equal(t, "01:15:00", summary.TravelDuration)
	assert.Equal(t, int64(150000), summary.Fare)
	assert.Equal(t, "Springfield Central", summary.OriginTitle)
	assert.Equal(t, "Shelbyville Station", summary.DestTitle)
}

func TestEnrichMidRouteBoarding(t *testing.T) {
	s := setupTestStore(t)
	seedNetwork(t, s)

	summary, err := trips.Enrich(context.Background(), s, findMatch(t, s, 3, 2, "2024-05-01"))
	require.NoError(t, err)

	// The first leg (00:30:00) shifts the departure; only the final
	// leg counts toward travel time.
	assert.Equal(t, "08:30:00", summary.Departure)
	assert.Equal(t, "00:15:00", summary.TravelDuration)
}

func TestEnrichMissingPriceMeansZeroFare(t *testing.T) {
	s := setupTestStore(t)
	seedNetwork(t, s)

	summary, err := trips.Enrich(context.Background(), s, findMatch(t, s, 1, 2, "2024-05-01"))
	require.NoError(t, err)
	assert.Zero(t, summary.Fare)
}

func TestEnrichSeatOccupancyIgnoresReleasedSeats(t *testing.T) {
	s := setupTestStore(t)
	seedNetwork(t, s)
	ctx := context.Background()

	require.NoError(t, s.CreateTicket(ctx, &models.Ticket{TripID: 1, SeatNo: 5, Status: models.TicketStatusCompleted, PNR: "AAA111", Gender: "f"}))
	require.NoError(t, s.CreateTicket(ctx, &models.Ticket{TripID: 1, SeatNo: 6, Status: models.TicketStatusCanceled, PNR: "BBB222"}))

	summary, err := trips.Enrich(ctx, s, findMatch(t, s, 1, 2, "2024-05-01"))
	require.NoError(t, err)

	require.Len(t, summary.SeatMap.Occupancy, 1)
	occupant, ok := summary.SeatMap.Occupancy[5]
	require.True(t, ok)
	assert.Equal(t, "f", occupant.Gender)
	assert.InDelta(t, 1.0/30.0, summary.Fullness, 1e-9)
	assert.Equal(t, 8, summary.SeatMap.Rows)
	assert.Equal(t, 4, summary.SeatMap.Cols)
}

func TestEnrichDepartureWrapsPastMidnight(t *testing.T) {
	s := setupTestStore(t)
	seedNetwork(t, s)

	// A late trip on the same route: 23:45 plus the 00:30 first leg wraps to 00:15.
	insert(t, s, &models.Trip{ID: 9, RouteID: 1, Date: "2024-05-03", DepartureTime: "23:45:00", BusModelID: 1})

	summary, err := trips.Enrich(context.Background(), s, findMatch(t, s, 3, 2, "2024-05-03"))
	require.NoError(t, err)
	assert.Equal(t, "00:15:00", summary.Departure)
}

func TestEnrichMissingBusModel(t *testing.T) {
	s := setupTestStore(t)
	seedNetwork(t, s)

	insert(t, s, &models.Trip{ID: 3, RouteID: 1, Date: "2024-05-02", DepartureTime: "08:00:00", BusModelID: 77})

	_, err := trips.Enrich(context.Background(), s, findMatch(t, s, 1, 2, "2024-05-02"))
	require.Error(t, err)
	assert.True(t, domain.IsMissingReferenceData(err))
}
