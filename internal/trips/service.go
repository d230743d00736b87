package trips

import (
	"context"
	"fmt"
	"time"

	"ms-reservation/internal/domain"
	"ms-reservation/internal/logger"
	"ms-reservation/internal/models"
	"ms-reservation/internal/tenant"
)

// Service answers itinerary queries for a single tenant. Unlike the
// cross-tenant ticket search, any error here aborts the request.
type Service struct {
	Pool *tenant.Pool
	Log  *logger.Logger
}

func NewService(pool *tenant.Pool, log *logger.Logger) *Service {
	return &Service{Pool: pool, Log: log}
}

// Search finds and enriches every trip connecting the two places on
// the given date within one tenant.
func (s *Service) Search(ctx context.Context, tenantKey string, originPlaceID, destPlaceID int64, date string) ([]models.TripSummary, error) {
	if originPlaceID <= 0 {
		return nil, domain.ValidationError{Field: "origin", Msg: "origin place is required"}
	}
	if destPlaceID <= 0 {
		return nil, domain.ValidationError{Field: "destination", Msg: "destination place is required"}
	}
	if originPlaceID == destPlaceID {
		return nil, domain.ValidationError{Field: "destination", Msg: "origin and destination must differ"}
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, domain.ValidationError{Field: "date", Msg: "date must be YYYY-MM-DD"}
	}

	h, err := s.Pool.Handle(ctx, tenantKey)
	if err != nil {
		return nil, err
	}

	matches, err := FindTrips(ctx, h, originPlaceID, destPlaceID, date)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.TripSummary, 0, len(matches))
	for _, match := range matches {
		summary, err := Enrich(ctx, h, match)
		if err != nil {
			return nil, fmt.Errorf("enrich trip %d: %w", match.Trip.ID, err)
		}
		summaries = append(summaries, *summary)
	}

	if s.Log != nil {
		s.Log.LogTenant(tenantKey, fmt.Sprintf("itinerary %d->%d on %s: %d trips", originPlaceID, destPlaceID, date, len(summaries)))
	}
	return summaries, nil
}
