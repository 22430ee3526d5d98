package models

import "time"

// RefreshToken is an opaque, store-backed credential exchanged for new
// access tokens. Records are only ever created and deleted, never updated.
type RefreshToken struct {
	ID        int64
	UserID    int64
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}
