package users

import "time"

// User is the persisted account record. PasswordHash is opaque to everything
// except the password hasher; plaintext credentials are never stored.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TokenPair bundles a short-lived access token and a long-lived refresh
// token. Pairs are issued atomically: callers never see one without the
// other.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
