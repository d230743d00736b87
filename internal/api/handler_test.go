package api_test

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ms-reservation/internal/api"
	"ms-reservation/internal/booking"
	"ms-reservation/internal/config"
	"ms-reservation/internal/models"
	"ms-reservation/internal/store"
	"ms-reservation/internal/tenant"
	"ms-reservation/internal/tickets"
	"ms-reservation/internal/trips"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/sqliteshim"
)

type noopLocker struct{}

func (noopLocker) LockSeat(ctx context.Context, tenantKey string, tripID int64, seatNo int, owner string) (bool, error) {
	return true, nil
}

func (noopLocker) UnlockSeat(ctx context.Context, tenantKey string, tripID int64, seatNo int, owner string) error {
	return nil
}

func setupRouter(t *testing.T) (chi.Router, *store.Store) {
	t.Helper()
	sqldb, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	s := store.New(bun.NewDB(sqldb, sqlitedialect.New()))
	ctx := context.Background()
	require.NoError(t, s.EnsureSchema(ctx))
	t.Cleanup(func() { s.Close() })

	seed := []interface{}{
		&models.Place{ID: 1, Title: "Aville"},
		&models.Place{ID: 2, Title: "Bville"},
		&models.Stop{ID: 1, PlaceID: 1, Title: "Aville Terminal"},
		&models.Stop{ID: 2, PlaceID: 2, Title: "Bville Terminal"},
		&models.Route{ID: 1, Title: "Aville - Bville"},
		&models.RouteStop{RouteID: 1, StopID: 1, Order: 0, Duration: "02:00:00"},
		&models.RouteStop{RouteID: 1, StopID: 2, Order: 1, Duration: "00:00:00"},
		&models.BusModel{ID: 1, Name: "Coach", MaxPassenger: 10, SeatRows: 5, SeatCols: 2},
		&models.Trip{ID: 1, RouteID: 1, Date: "2024-05-01", DepartureTime: "08:00:00", BusModelID: 1},
	}
	for _, m := range seed {
		_, err := s.Bun.NewInsert().Model(m).Exec(ctx)
		require.NoError(t, err)
	}

	registry, err := tenant.NewRegistry([]models.Tenant{{Key: "north", DSN: "sqlite://north"}})
	require.NoError(t, err)
	pool := tenant.NewPool(registry, func(ctx context.Context, tn models.Tenant) (*store.Store, error) {
		return s, nil
	}, nil)
	executor := tenant.NewExecutor(registry, pool, nil, config.FanoutConfig{Concurrency: 2, TenantTimeout: time.Second})

	handler := &api.Handler{
		Trips:    trips.NewService(pool, nil),
		Tickets:  tickets.NewAggregator(executor, nil),
		Bookings: booking.NewService(pool, noopLocker{}, nil, config.TopicConfig{}, nil, nil),
	}
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, s
}

func do(t *testing.T, r chi.Router, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	r, _ := setupRouter(t)
	rec := do(t, r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSearchTripsEndpoint(t *testing.T) {
	r, _ := setupRouter(t)

	rec := do(t, r, http.MethodGet, "/api/v1/north/trips?from=1&to=2&date=2024-05-01", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "08:00:00")

	// Missing query parameters map to a 400.
	rec = do(t, r, http.MethodGet, "/api/v1/north/trips", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown tenants map to a 404.
	rec = do(t, r, http.MethodGet, "/api/v1/nowhere/trips?from=1&to=2&date=2024-05-01", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookingEndpoints(t *testing.T) {
	r, s := setupRouter(t)

	body := `{"trip_id":1,"seat_no":4,"first_name":"Omid","last_name":"Rahimi","phone":"555-0100"}`
	rec := do(t, r, http.MethodPost, "/api/v1/north/tickets", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Booking the same seat again conflicts.
	rec = do(t, r, http.MethodPost, "/api/v1/north/tickets", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, r, http.MethodPost, "/api/v1/north/tickets/1/confirm", "")
	require.Equal(t, http.StatusOK, rec.Code)

	got, err := s.TicketByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusCompleted, got.Status)

	rec = do(t, r, http.MethodPost, "/api/v1/north/tickets/1/cancel", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodPost, "/api/v1/north/tickets/abc/confirm", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchTicketsEndpoint(t *testing.T) {
	r, s := setupRouter(t)
	require.NoError(t, s.CreateTicket(context.Background(), &models.Ticket{TripID: 1, SeatNo: 2, Status: models.TicketStatusCompleted, PNR: "FIND01"}))

	rec := do(t, r, http.MethodGet, "/api/v1/tickets/search?pnr=FIND01", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "FIND01")

	rec = do(t, r, http.MethodGet, "/api/v1/tickets/search", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
