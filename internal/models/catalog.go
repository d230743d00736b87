package models

import (
	"github.com/uptrace/bun"
)

// Place is a city or region that may contain several boarding terminals.
type Place struct {
	bun.BaseModel `bun:"table:places"`

	ID         int64  `bun:"id,pk,autoincrement" json:"id"`
	Title      string `bun:"title,notnull" json:"title"`
	ProvinceID int64  `bun:"province_id,nullzero" json:"province_id,omitempty"`
}

// Stop is a single terminal inside a Place.
type Stop struct {
	bun.BaseModel `bun:"table:stops"`

	ID      int64  `bun:"id,pk,autoincrement" json:"id"`
	PlaceID int64  `bun:"place_id,notnull" json:"place_id"`
	Title   string `bun:"title,notnull" json:"title"`
}

// Route is an ordered path of stops operated by a tenant.
type Route struct {
	bun.BaseModel `bun:"table:routes"`

	ID    int64  `bun:"id,pk,autoincrement" json:"id"`
	Title string `bun:"title" json:"title"`
}

// RouteStop is one leg of a route. Order is 0-based and strictly
// increasing per route. Duration is the elapsed travel time from the
// previous stop to this one, encoded as "HH:MM:SS".
type RouteStop struct {
	bun.BaseModel `bun:"table:route_stops"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	RouteID  int64  `bun:"route_id,notnull" json:"route_id"`
	StopID   int64  `bun:"stop_id,notnull" json:"stop_id"`
	Order    int    `bun:"stop_order,notnull" json:"order"`
	Duration string `bun:"duration,notnull" json:"duration"`
}
