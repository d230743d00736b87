package trips

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ms-reservation/internal/domain"
	"ms-reservation/internal/models"
	"ms-reservation/internal/store"
	"ms-reservation/internal/utils"
)

// Enrich derives the display summary for one matched trip: effective
// departure at the boarding stop, travel duration, fare, and seat
// occupancy. It is stateless; each call only reads.
func Enrich(ctx context.Context, h *store.Store, match models.TripMatch) (*models.TripSummary, error) {
	trip := match.Trip

	legs, err := h.RouteStopsByRoute(ctx, trip.RouteID)
	if err != nil {
		return nil, err
	}

	boardingIdx, alightingIdx := -1, -1
	for i, leg := range legs {
		if leg.StopID == match.BoardingStop.ID {
			boardingIdx = i
		}
		if leg.StopID == match.AlightingStop.ID {
			alightingIdx = i
		}
	}
	if boardingIdx < 0 {
		return nil, domain.MissingReferenceDataError{Resource: "route leg for boarding stop", ID: match.BoardingStop.ID}
	}
	if alightingIdx < 0 {
		return nil, domain.MissingReferenceDataError{Resource: "route leg for alighting stop", ID: match.AlightingStop.ID}
	}

	// Effective departure: scheduled time plus every leg duration
	// strictly before the boarding leg, wrapping at midnight.
	var before []string
	for _, leg := range legs[:boardingIdx] {
		before = append(before, leg.Duration)
	}
	departure, err := utils.AddClock(trip.DepartureTime, before...)
	if err != nil {
		return nil, fmt.Errorf("trip %d departure: %w", trip.ID, err)
	}

	// Travel duration: legs after boarding up to and including the
	// alighting leg. Boarding on the final leg leaves nothing to sum
	// and yields 00:00:00; kept as-is rather than rejecting the match.
	var travel []string
	for i := boardingIdx + 1; i < len(legs) && i <= alightingIdx; i++ {
		travel = append(travel, legs[i].Duration)
	}
	travelDuration, err := utils.SumDurations(travel...)
	if err != nil {
		return nil, fmt.Errorf("trip %d travel duration: %w", trip.ID, err)
	}

	// No published fare for the exact pair means zero, not an error.
	// A zero fare is therefore ambiguous with a free trip.
	var fare int64
	price, err := h.PriceForPair(ctx, match.BoardingStop.ID, match.AlightingStop.ID)
	if err != nil {
		return nil, err
	}
	if price != nil {
		fare = price.Amount
	}

	busModel, err := h.BusModelByID(ctx, trip.BusModelID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.MissingReferenceDataError{Resource: "bus model", ID: trip.BusModelID}
	}
	if err != nil {
		return nil, err
	}

	tickets, err := h.ActiveTicketsByTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	occupancy := make(map[int]models.SeatOccupant, len(tickets))
	for _, t := range tickets {
		occupancy[t.SeatNo] = models.SeatOccupant{
			TicketID: t.ID,
			Gender:   t.Gender,
			Status:   t.Status,
		}
	}

	fullness := 0.0
	if busModel.MaxPassenger > 0 {
		fullness = float64(len(tickets)) / float64(busModel.MaxPassenger)
	}

	return &models.TripSummary{
		TripID:          trip.ID,
		Date:            trip.Date,
		Departure:       departure,
		TravelDuration:  travelDuration,
		OriginTitle:     match.BoardingStop.Title,
		DestTitle:       match.AlightingStop.Title,
		BoardingStopID:  match.BoardingStop.ID,
		AlightingStopID: match.AlightingStop.ID,
		Fare:            fare,
		Fullness:        fullness,
		SeatMap: models.SeatMap{
			Rows:      busModel.SeatRows,
			Cols:      busModel.SeatCols,
			Layout:    busModel.SeatLayout,
			Occupancy: occupancy,
		},
	}, nil
}
