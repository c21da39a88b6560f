package domain

import "time"

// User is the identity of an authenticated account, decoded from the access
// token's claims. ExpiresAt mirrors the token's exp claim so callers can tell
// when the session it came from lapses.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}
