package models

import "time"

// TripMatch pairs a trip with the stops the passenger boards and
// alights at for a given origin/destination place query.
type TripMatch struct {
	Trip          Trip `json:"trip"`
	BoardingStop  Stop `json:"boarding_stop"`
	AlightingStop Stop `json:"alighting_stop"`
}

// SeatOccupant is one occupied seat in a trip's seat map.
type SeatOccupant struct {
	TicketID int64  `json:"ticket_id"`
	Gender   string `json:"gender"`
	Status   string `json:"status"`
}

// SeatMap is the seating plan of a bus model together with the seats
// occupied on one trip, keyed by seat number. Seats absent from the
// map are free; absence is explicit here, never a hole in an array.
type SeatMap struct {
	Rows      int                  `json:"rows"`
	Cols      int                  `json:"cols"`
	Layout    string               `json:"layout"`
	Occupancy map[int]SeatOccupant `json:"occupancy"`
}

// TripSummary is the sole contract handed to the rendering side for an
// itinerary search hit.
type TripSummary struct {
	TripID          int64   `json:"trip_id"`
	Date            string  `json:"date"`
	Departure       string  `json:"departure"`
	TravelDuration  string  `json:"travel_duration"`
	OriginTitle     string  `json:"origin_title"`
	DestTitle       string  `json:"dest_title"`
	BoardingStopID  int64   `json:"boarding_stop_id"`
	AlightingStopID int64   `json:"alighting_stop_id"`
	Fare            int64   `json:"fare"`
	Fullness        float64 `json:"fullness"`
	SeatMap         SeatMap `json:"seat_map"`
}

// TicketSummary is one cross-tenant ticket search hit with its
// passenger, itinerary and contact display fields joined in.
type TicketSummary struct {
	TenantKey     string    `json:"tenant_key"`
	TicketID      int64     `json:"ticket_id"`
	PNR           string    `json:"pnr"`
	SeatNo        int       `json:"seat_no"`
	Status        string    `json:"status"`
	PassengerName string    `json:"passenger_name"`
	Gender        string    `json:"gender"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	TripDate      string    `json:"trip_date"`
	DepartureTime string    `json:"departure_time"`
	OriginTitle   string    `json:"origin_title"`
	DestTitle     string    `json:"dest_title"`
	CreatedAt     time.Time `json:"created_at"`
}
