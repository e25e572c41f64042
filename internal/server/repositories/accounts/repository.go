// Package accounts declares the account store and its PostgreSQL and
// in-memory implementations.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/accounts/internal/server/models"
)

// Repository is the account store. Lookups return common.ErrorNotFound when
// nothing matches; Create returns common.ErrDuplicateEmail or
// common.ErrDuplicatePhone when a uniqueness constraint rejects the insert.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByPhone(ctx context.Context, phone int64) (*models.Account, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)

	// Create inserts a new account with the default role and returns it with
	// its storage-assigned id and timestamps.
	Create(ctx context.Context, acc models.NewAccount) (*models.Account, error)

	// List returns accounts ordered by creation time.
	List(ctx context.Context, page models.Page) ([]models.Account, error)

	// SetAvatar stores key as the account's avatar and returns the previous
	// key, if any.
	SetAvatar(ctx context.Context, id string, key string) (*string, error)
}
