package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ms-reservation/internal/models"

	"github.com/uptrace/bun"
)

// Store is the typed data handle for one tenant's backing store. Every
// query runs against that tenant's own database; tenants never share a
// handle.
type Store struct {
	Bun *bun.DB
}

func New(db *bun.DB) *Store {
	return &Store{Bun: db}
}

func (s *Store) Close() error {
	return s.Bun.Close()
}

// ---------------- places & stops ----------------

func (s *Store) PlaceByID(ctx context.Context, id int64) (*models.Place, error) {
	var place models.Place
	err := s.Bun.NewSelect().
		Model(&place).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &place, nil
}

// StopsByPlaces returns every stop belonging to any of the given
// places. An empty id set yields an empty result, not a query error.
func (s *Store) StopsByPlaces(ctx context.Context, placeIDs []int64) ([]models.Stop, error) {
	if len(placeIDs) == 0 {
		return nil, nil
	}
	var stops []models.Stop
	err := s.Bun.NewSelect().
		Model(&stops).
		Where("place_id IN (?)", bun.In(placeIDs)).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return stops, nil
}

func (s *Store) StopsByIDs(ctx context.Context, ids []int64) ([]models.Stop, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var stops []models.Stop
	err := s.Bun.NewSelect().
		Model(&stops).
		Where("id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return stops, nil
}

// ---------------- routes ----------------

// RouteStopsByStops returns every leg referencing any of the given
// stops, across all routes.
func (s *Store) RouteStopsByStops(ctx context.Context, stopIDs []int64) ([]models.RouteStop, error) {
	if len(stopIDs) == 0 {
		return nil, nil
	}
	var legs []models.RouteStop
	err := s.Bun.NewSelect().
		Model(&legs).
		Where("stop_id IN (?)", bun.In(stopIDs)).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return legs, nil
}

// RouteStopsByRoute returns the full ordered path of one route.
func (s *Store) RouteStopsByRoute(ctx context.Context, routeID int64) ([]models.RouteStop, error) {
	var legs []models.RouteStop
	err := s.Bun.NewSelect().
		Model(&legs).
		Where("route_id = ?", routeID).
		Order("stop_order ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return legs, nil
}

func (s *Store) RouteStopsByRoutes(ctx context.Context, routeIDs []int64) ([]models.RouteStop, error) {
	if len(routeIDs) == 0 {
		return nil, nil
	}
	var legs []models.RouteStop
	err := s.Bun.NewSelect().
		Model(&legs).
		Where("route_id IN (?)", bun.In(routeIDs)).
		Order("route_id ASC").
		Order("stop_order ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return legs, nil
}

// ---------------- trips ----------------

func (s *Store) TripByID(ctx context.Context, id int64) (*models.Trip, error) {
	var trip models.Trip
	err := s.Bun.NewSelect().
		Model(&trip).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (s *Store) TripsByIDs(ctx context.Context, ids []int64) ([]models.Trip, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var trips []models.Trip
	err := s.Bun.NewSelect().
		Model(&trips).
		Where("id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return trips, nil
}

// TripsByRoutesOnDate returns the trips of any candidate route running
// on the given date.
func (s *Store) TripsByRoutesOnDate(ctx context.Context, routeIDs []int64, date string) ([]models.Trip, error) {
	if len(routeIDs) == 0 {
		return nil, nil
	}
	var trips []models.Trip
	err := s.Bun.NewSelect().
		Model(&trips).
		Where("route_id IN (?)", bun.In(routeIDs)).
		Where("date = ?", date).
		Order("departure_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return trips, nil
}

// ---------------- fares & bus models ----------------

// PriceForPair returns the published fare for the exact stop pair, or
// nil when no fare is published for it.
func (s *Store) PriceForPair(ctx context.Context, fromStopID, toStopID int64) (*models.Price, error) {
	var price models.Price
	err := s.Bun.NewSelect().
		Model(&price).
		Where("from_stop_id = ?", fromStopID).
		Where("to_stop_id = ?", toStopID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &price, nil
}

func (s *Store) BusModelByID(ctx context.Context, id int64) (*models.BusModel, error) {
	var model models.BusModel
	err := s.Bun.NewSelect().
		Model(&model).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &model, nil
}

// ---------------- tickets ----------------

func (s *Store) TicketByID(ctx context.Context, id int64) (*models.Ticket, error) {
	var ticket models.Ticket
	err := s.Bun.NewSelect().
		Model(&ticket).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// ActiveTicketsByTrip returns the tickets occupying seats on a trip,
// ordered by seat number. Canceled and refunded tickets do not occupy
// a seat and are excluded.
func (s *Store) ActiveTicketsByTrip(ctx context.Context, tripID int64) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := s.Bun.NewSelect().
		Model(&tickets).
		Where("trip_id = ?", tripID).
		Where("status NOT IN (?)", bun.In([]string{models.TicketStatusCanceled, models.TicketStatusRefund})).
		Order("seat_no ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

// SearchTickets matches tickets against the OR-combined predicates of
// the query. An empty query matches nothing.
func (s *Store) SearchTickets(ctx context.Context, query models.TicketQuery) ([]models.Ticket, error) {
	if query.Empty() {
		return nil, nil
	}
	var tickets []models.Ticket
	q := s.Bun.NewSelect().Model(&tickets)
	q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
		if query.PNR != "" {
			q = q.WhereOr("pnr = ?", query.PNR)
		}
		if query.Phone != "" {
			q = q.WhereOr("phone = ?", query.Phone)
		}
		if query.Email != "" {
			q = q.WhereOr("email = ?", query.Email)
		}
		if query.NationalID != "" {
			q = q.WhereOr("national_id = ?", query.NationalID)
		}
		return q
	})
	if err := q.Order("created_at DESC").Scan(ctx); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (s *Store) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	now := time.Now().UTC()
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = now
	}
	ticket.UpdatedAt = now
	_, err := s.Bun.NewInsert().Model(ticket).Exec(ctx)
	return err
}

func (s *Store) UpdateTicket(ctx context.Context, ticket models.Ticket) error {
	ticket.UpdatedAt = time.Now().UTC()
	_, err := s.Bun.NewUpdate().
		Model(&ticket).
		Column("seat_no", "status", "gender", "first_name", "last_name", "national_id", "phone", "email", "qr_code", "updated_at").
		Where("id = ?", ticket.ID).
		Exec(ctx)
	return err
}

// ---------------- users ----------------

func (s *Store) UsersByIDs(ctx context.Context, ids []int64) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	err := s.Bun.NewSelect().
		Model(&users).
		Where("id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return users, nil
}
