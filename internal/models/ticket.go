package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Ticket statuses. A seat counts as occupied for every status except
// canceled and refund.
const (
	TicketStatusPending   = "pending"
	TicketStatusCompleted = "completed"
	TicketStatusCanceled  = "canceled"
	TicketStatusRefund    = "refund"
)

type Ticket struct {
	bun.BaseModel `bun:"table:tickets"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	TripID     int64     `bun:"trip_id,notnull" json:"trip_id"`
	SeatNo     int       `bun:"seat_no,notnull" json:"seat_no"`
	Status     string    `bun:"status,notnull" json:"status"`
	Gender     string    `bun:"gender" json:"gender"`
	PNR        string    `bun:"pnr,notnull" json:"pnr"`
	FirstName  string    `bun:"first_name" json:"first_name"`
	LastName   string    `bun:"last_name" json:"last_name"`
	NationalID string    `bun:"national_id" json:"national_id"`
	Phone      string    `bun:"phone" json:"phone"`
	Email      string    `bun:"email" json:"email"`
	UserID     int64     `bun:"user_id,nullzero" json:"user_id,omitempty"`
	QRCode     []byte    `bun:"qr_code" json:"-"`
	CreatedAt  time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

// Occupied reports whether the ticket still holds its seat on the trip.
func (t Ticket) Occupied() bool {
	return t.Status != TicketStatusCanceled && t.Status != TicketStatusRefund
}

// TicketQuery is a set of independent match predicates, OR-combined
// within one tenant query. Empty fields are skipped.
type TicketQuery struct {
	PNR        string `json:"pnr,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	NationalID string `json:"national_id,omitempty"`
}

// Empty reports whether no predicate is set.
func (q TicketQuery) Empty() bool {
	return q.PNR == "" && q.Phone == "" && q.Email == "" && q.NationalID == ""
}
