package trips

import (
	"context"

	"ms-reservation/internal/models"
	"ms-reservation/internal/store"
)

type routeInfo struct {
	places         map[int64]struct{}
	boardingStop   int64
	boardingOrder  int
	alightingStop  int64
	alightingOrder int
}

// FindTrips resolves the trips connecting two places on a date,
// together with the boarding and alighting stop on each trip's route.
//
// A route qualifies when the set of places its legs touch contains
// both the origin and the destination. The test is set membership
// only; whether the alighting leg actually follows the boarding leg in
// route order is not checked here.
func FindTrips(ctx context.Context, h *store.Store, originPlaceID, destPlaceID int64, date string) ([]models.TripMatch, error) {
	stops, err := h.StopsByPlaces(ctx, []int64{originPlaceID, destPlaceID})
	if err != nil {
		return nil, err
	}

	stopsByID := make(map[int64]models.Stop, len(stops))
	stopIDs := make([]int64, 0, len(stops))
	originSeen, destSeen := false, false
	for _, s := range stops {
		stopsByID[s.ID] = s
		stopIDs = append(stopIDs, s.ID)
		if s.PlaceID == originPlaceID {
			originSeen = true
		}
		if s.PlaceID == destPlaceID {
			destSeen = true
		}
	}

	// A place with no stops cannot be traveled to or from; that is an
	// empty result, not an error.
	if !originSeen || !destSeen {
		return nil, nil
	}

	legs, err := h.RouteStopsByStops(ctx, stopIDs)
	if err != nil {
		return nil, err
	}

	routes := make(map[int64]*routeInfo)
	for _, leg := range legs {
		stop, ok := stopsByID[leg.StopID]
		if !ok {
			continue
		}
		info := routes[leg.RouteID]
		if info == nil {
			info = &routeInfo{places: make(map[int64]struct{})}
			routes[leg.RouteID] = info
		}
		info.places[stop.PlaceID] = struct{}{}

		// When a place has several stops on one route, board at the
		// earliest and alight at the earliest, deterministically.
		if stop.PlaceID == originPlaceID {
			if info.boardingStop == 0 || leg.Order < info.boardingOrder {
				info.boardingStop = stop.ID
				info.boardingOrder = leg.Order
			}
		}
		if stop.PlaceID == destPlaceID {
			if info.alightingStop == 0 || leg.Order < info.alightingOrder {
				info.alightingStop = stop.ID
				info.alightingOrder = leg.Order
			}
		}
	}

	var candidateIDs []int64
	for routeID, info := range routes {
		_, hasOrigin := info.places[originPlaceID]
		_, hasDest := info.places[destPlaceID]
		if hasOrigin && hasDest {
			candidateIDs = append(candidateIDs, routeID)
		}
	}

	tripList, err := h.TripsByRoutesOnDate(ctx, candidateIDs, date)
	if err != nil {
		return nil, err
	}

	matches := make([]models.TripMatch, 0, len(tripList))
	for _, trip := range tripList {
		info := routes[trip.RouteID]
		if info == nil || info.boardingStop == 0 || info.alightingStop == 0 {
			continue
		}
		matches = append(matches, models.TripMatch{
			Trip:          trip,
			BoardingStop:  stopsByID[info.boardingStop],
			AlightingStop: stopsByID[info.alightingStop],
		})
	}
	return matches, nil
}
