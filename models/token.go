package models

import "time"

// Token is a bearer session credential. Expiry is evaluated lazily on each
// use; there is no background sweep.
type Token struct {
	ID      string    `json:"id"`
	Email   string    `json:"email"`
	Expires time.Time `json:"expires"`
}

// Expired reports whether the token is past its expiry at the given instant.
func (t Token) Expired(now time.Time) bool {
	return t.Expires.Before(now)
}
