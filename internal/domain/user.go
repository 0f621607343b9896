package domain

import "time"

// DefaultFreeConversions is granted to every newly registered user.
const DefaultFreeConversions = 3

// User is an account that owns documents and a conversion balance.
// Balance is stored in euro cents.
type User struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	IsSuperuser     bool      `json:"is_superuser"`
	APIKeyHash      string    `json:"-"`
	Balance         int64     `json:"balance_cents"`
	FreeConversions int       `json:"free_conversions"`
	CreatedAt       time.Time `json:"created_at"`
}

// CanConvert reports whether the user has any free conversions or balance left.
func (u *User) CanConvert() bool {
	return u.FreeConversions > 0 || u.Balance > 0
}
