package models

import "time"

// Order is an immutable record of a completed checkout. Items are copies of
// the product data at purchase time, not live references, and Total is fixed
// at creation and never recomputed.
type Order struct {
	ID        string              `json:"id"`
	Email     string              `json:"email"`
	Items     []PopulatedCartItem `json:"items"`
	Total     int64               `json:"total"`
	Charge    string              `json:"charge"`
	CreatedAt time.Time           `json:"created_at"`
}
