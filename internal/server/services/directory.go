package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/server/auth"
	"github.com/dmitrijs2005/accounts/internal/server/models"
)

// List returns accounts in creation order. A zero page lists everything.
func (s *AccountService) List(ctx context.Context, page models.Page) ([]models.Account, error) {
	if page.Limit < 0 || page.Offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", common.ErrValidation)
	}
	list, err := s.accounts().List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return list, nil
}

// Current returns what the guard attached to ctx. It does not verify tokens.
func (s *AccountService) Current(ctx context.Context) (*auth.Principal, error) {
	p, ok := auth.PrincipalFromContext(ctx)
	if !ok || p.Account == nil {
		return nil, common.ErrUnauthorized
	}
	return p, nil
}

// Logout revokes the presented tokens when a denylist is configured and
// clears the request principal.
func (s *AccountService) Logout(ctx context.Context) (string, error) {
	p, err := s.Current(ctx)
	if err != nil {
		return "", err
	}

	for _, info := range []*auth.TokenInfo{p.Access, p.Refresh} {
		if info == nil {
			continue
		}
		if _, err := s.revoked.Revoke(ctx, info.ID, info.ExpiresAt); err != nil {
			return "", fmt.Errorf("revoke %s token: %w", info.Kind, err)
		}
	}

	s.log.Info(ctx, "logged out", "account_id", p.Account.ID)
	p.Clear()
	return common.LogoutMessage, nil
}
