// Package revokedtokens declares the token denylist and its backends. A
// token id stays revoked until the token itself would have expired.
package revokedtokens

import (
	"context"
	"time"
)

// Repository records revoked token ids.
type Repository interface {
	// Revoke marks id as revoked until expiresAt. It reports false when id
	// was already revoked; revoking twice is not an error.
	Revoke(ctx context.Context, id string, expiresAt time.Time) (bool, error)

	IsRevoked(ctx context.Context, id string) (bool, error)
}

// Purger is implemented by backends that do not expire entries on their own.
type Purger interface {
	// Purge deletes entries that expired before now and reports how many.
	Purge(ctx context.Context, now time.Time) (int64, error)
}

// Nop is the disabled backend: nothing is ever revoked.
type Nop struct{}

func (Nop) Revoke(context.Context, string, time.Time) (bool, error) { return true, nil }
func (Nop) IsRevoked(context.Context, string) (bool, error)         { return false, nil }
