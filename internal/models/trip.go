package models

import (
	"github.com/uptrace/bun"
)

// Trip is a concrete run of a Route on a specific date.
// Date is "YYYY-MM-DD", DepartureTime is "HH:MM:SS" at the route start.
type Trip struct {
	bun.BaseModel `bun:"table:trips"`

	ID            int64  `bun:"id,pk,autoincrement" json:"id"`
	RouteID       int64  `bun:"route_id,notnull" json:"route_id"`
	Date          string `bun:"date,notnull" json:"date"`
	DepartureTime string `bun:"departure_time,notnull" json:"departure_time"`
	BusModelID    int64  `bun:"bus_model_id,notnull" json:"bus_model_id"`
}

// Price is the published fare for an exact stop pair. Absence of a row
// means no published fare for that pair.
type Price struct {
	bun.BaseModel `bun:"table:prices"`

	ID         int64 `bun:"id,pk,autoincrement" json:"id"`
	FromStopID int64 `bun:"from_stop_id,notnull" json:"from_stop_id"`
	ToStopID   int64 `bun:"to_stop_id,notnull" json:"to_stop_id"`
	Amount     int64 `bun:"amount,notnull" json:"amount"`
}

// BusModel describes a coach layout. SeatLayout is a row-major presence
// string of SeatRows*SeatCols cells where '1' marks a physical seat;
// seat numbers count the '1' cells in order, starting at 1.
type BusModel struct {
	bun.BaseModel `bun:"table:bus_models"`

	ID           int64  `bun:"id,pk,autoincrement" json:"id"`
	Name         string `bun:"name" json:"name"`
	MaxPassenger int    `bun:"max_passenger,notnull" json:"max_passenger"`
	SeatRows     int    `bun:"seat_rows,notnull" json:"seat_rows"`
	SeatCols     int    `bun:"seat_cols,notnull" json:"seat_cols"`
	SeatLayout   string `bun:"seat_layout,notnull" json:"seat_layout"`
}
