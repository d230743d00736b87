package tickets

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"ms-reservation/internal/domain"
	"ms-reservation/internal/logger"
	"ms-reservation/internal/models"
	"ms-reservation/internal/store"
	"ms-reservation/internal/tenant"
)

// Aggregator answers "find my tickets everywhere" queries: the same
// predicate set is issued to every tenant through the fan-out executor
// and the per-tenant results are merged into one global view.
type Aggregator struct {
	Executor *tenant.Executor
	Log      *logger.Logger
}

func NewAggregator(executor *tenant.Executor, log *logger.Logger) *Aggregator {
	return &Aggregator{Executor: executor, Log: log}
}

// Search runs the ticket search across all tenants. A tenant that is
// unreachable or fails mid-query contributes nothing; the search
// itself still succeeds with shrunken coverage.
func (a *Aggregator) Search(ctx context.Context, query models.TicketQuery) ([]models.TicketSummary, error) {
	if query.Empty() {
		return nil, domain.ValidationError{Msg: "at least one search predicate is required"}
	}

	results := a.Executor.RunForAll(ctx, func(ctx context.Context, tenantKey string, h *store.Store) (interface{}, error) {
		return searchTenant(ctx, tenantKey, h, query)
	})

	if a.Log != nil {
		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
			}
		}
		if failed > 0 {
			a.Log.Warn("TICKETS", fmt.Sprintf("cross-tenant search degraded: %d/%d tenants failed", failed, len(results)))
		}
	}

	return mergeResults(results), nil
}

// searchTenant matches tickets in one tenant and joins the referenced
// trips, legs, stops and users with one batched lookup per collection,
// keyed by the distinct ids in the ticket set.
func searchTenant(ctx context.Context, tenantKey string, h *store.Store, query models.TicketQuery) ([]models.TicketSummary, error) {
	matched, err := h.SearchTickets(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return nil, nil
	}

	tripIDs := distinct(matched, func(t models.Ticket) int64 { return t.TripID })
	userIDs := distinct(matched, func(t models.Ticket) int64 { return t.UserID })

	tripList, err := h.TripsByIDs(ctx, tripIDs)
	if err != nil {
		return nil, err
	}
	tripsByID := make(map[int64]models.Trip, len(tripList))
	routeIDSet := make(map[int64]struct{})
	var routeIDs []int64
	for _, trip := range tripList {
		tripsByID[trip.ID] = trip
		if _, ok := routeIDSet[trip.RouteID]; !ok {
			routeIDSet[trip.RouteID] = struct{}{}
			routeIDs = append(routeIDs, trip.RouteID)
		}
	}

	legs, err := h.RouteStopsByRoutes(ctx, routeIDs)
	if err != nil {
		return nil, err
	}
	// Legs arrive ordered by route then stop order, so the first and
	// last leg seen per route bound its path.
	firstLeg := make(map[int64]models.RouteStop)
	lastLeg := make(map[int64]models.RouteStop)
	stopIDSet := make(map[int64]struct{})
	for _, leg := range legs {
		if _, ok := firstLeg[leg.RouteID]; !ok {
			firstLeg[leg.RouteID] = leg
		}
		lastLeg[leg.RouteID] = leg
		stopIDSet[leg.StopID] = struct{}{}
	}
	stopIDs := make([]int64, 0, len(stopIDSet))
	for id := range stopIDSet {
		stopIDs = append(stopIDs, id)
	}

	stops, err := h.StopsByIDs(ctx, stopIDs)
	if err != nil {
		return nil, err
	}
	stopsByID := make(map[int64]models.Stop, len(stops))
	for _, s := range stops {
		stopsByID[s.ID] = s
	}

	users, err := h.UsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	usersByID := make(map[int64]models.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	summaries := make([]models.TicketSummary, 0, len(matched))
	for _, ticket := range matched {
		summary := models.TicketSummary{
			TenantKey:     tenantKey,
			TicketID:      ticket.ID,
			PNR:           ticket.PNR,
			SeatNo:        ticket.SeatNo,
			Status:        ticket.Status,
			Gender:        ticket.Gender,
			Phone:         ticket.Phone,
			Email:         ticket.Email,
			PassengerName: strings.TrimSpace(ticket.FirstName + " " + ticket.LastName),
			CreatedAt:     ticket.CreatedAt,
		}

		if trip, ok := tripsByID[ticket.TripID]; ok {
			summary.TripDate = trip.Date
			summary.DepartureTime = trip.DepartureTime
			if leg, ok := firstLeg[trip.RouteID]; ok {
				summary.OriginTitle = stopsByID[leg.StopID].Title
			}
			if leg, ok := lastLeg[trip.RouteID]; ok {
				summary.DestTitle = stopsByID[leg.StopID].Title
			}
		}

		// Account contact details fill whatever the ticket left blank.
		if user, ok := usersByID[ticket.UserID]; ok {
			if summary.Phone == "" {
				summary.Phone = user.Phone
			}
			if summary.Email == "" {
				summary.Email = user.Email
			}
			if summary.PassengerName == "" {
				summary.PassengerName = strings.TrimSpace(user.FirstName + " " + user.LastName)
			}
		}

		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// mergeResults concatenates the successful per-tenant lists, drops
// duplicates of the same (tenant, ticket) pair, and orders the merged
// view by creation time, newest first.
func mergeResults(results []tenant.TenantResult) []models.TicketSummary {
	merged := []models.TicketSummary{}
	seen := make(map[string]struct{})
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		summaries, ok := r.Value.([]models.TicketSummary)
		if !ok {
			continue
		}
		for _, s := range summaries {
			key := fmt.Sprintf("%s/%d", s.TenantKey, s.TicketID)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, s)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged
}

func distinct(tickets []models.Ticket, pick func(models.Ticket) int64) []int64 {
	seen := make(map[int64]struct{})
	var out []int64
	for _, t := range tickets {
		id := pick(t)
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
