package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User carries account contact info. The reservation core only joins
// it into ticket summaries; it never mutates users.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Email     string    `bun:"email,unique,notnull" json:"email"`
	Phone     string    `bun:"phone" json:"phone"`
	FirstName string    `bun:"first_name" json:"first_name"`
	LastName  string    `bun:"last_name" json:"last_name"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
}
