package models

import "time"

// RevokedToken is a denylist entry. It only needs to outlive the token it
// names, so rows past ExpiresAt can be purged.
type RevokedToken struct {
	TokenID   string
	ExpiresAt time.Time
}
