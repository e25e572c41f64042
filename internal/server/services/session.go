package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/server/auth"
	"github.com/dmitrijs2005/accounts/internal/server/models"
)

// LoginInput holds login credentials. It is not validated: malformed input
// simply fails to match an account.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the outcome of Login and Refresh. A rejected login is not
// an error: Failure is set and the other fields are empty.
type LoginResult struct {
	Account      *models.Account
	AccessToken  string
	RefreshToken string
	Failure      error
}

func failedLogin() *LoginResult {
	return &LoginResult{Failure: common.ErrInvalidCredentials}
}

// Login checks credentials and issues a session. Unknown email and wrong
// password produce the same result. Only storage or signing faults return
// an error.
func (s *AccountService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	acc, err := s.accounts().FindByEmail(ctx, in.Email)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("lookup account: %w", err)
		}
		_, _ = s.hasher.Verify(in.Password, s.dummyDigest)
		return failedLogin(), nil
	}

	ok, err := s.hasher.Verify(in.Password, acc.PasswordDigest)
	if err != nil {
		s.log.Error(ctx, "stored password digest unusable", "account_id", acc.ID, "error", err)
		return failedLogin(), nil
	}
	if !ok {
		return failedLogin(), nil
	}

	return s.issueSession(acc)
}

// Refresh exchanges a valid refresh token for a new session. With a denylist
// configured the presented token is revoked first, and only the caller that
// revokes it gets a session.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	var ref models.SessionRef
	info, err := s.tokens.Verify(refreshToken, auth.KindRefresh, &ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUnauthorized, err)
	}

	acc, err := s.liveAccount(ctx, info, ref)
	if err != nil {
		return nil, err
	}

	first, err := s.revoked.Revoke(ctx, info.ID, info.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}
	if !first {
		return nil, fmt.Errorf("%w: token revoked", common.ErrUnauthorized)
	}

	return s.issueSession(acc)
}

// Authenticate is the request guard. The access token must verify, must not
// be revoked and must name an existing account. The refresh token is
// optional; it is attached only when it verifies for the same account.
func (s *AccountService) Authenticate(ctx context.Context, accessToken, refreshToken string) (*auth.Principal, error) {
	if accessToken == "" {
		return nil, common.ErrUnauthorized
	}

	var ref models.SessionRef
	info, err := s.tokens.Verify(accessToken, auth.KindAccess, &ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUnauthorized, err)
	}

	acc, err := s.liveAccount(ctx, info, ref)
	if err != nil {
		return nil, err
	}

	p := &auth.Principal{Account: acc, AccessToken: accessToken, Access: info}

	if refreshToken != "" {
		var rref models.SessionRef
		rinfo, err := s.tokens.Verify(refreshToken, auth.KindRefresh, &rref)
		if err == nil && rref.AccountID == acc.ID {
			revoked, err := s.revoked.IsRevoked(ctx, rinfo.ID)
			switch {
			case err != nil:
				s.log.Warn(ctx, "refresh token not attached", "account_id", acc.ID, "error", err)
			case !revoked:
				p.RefreshToken = refreshToken
				p.Refresh = rinfo
			}
		}
	}

	return p, nil
}

// liveAccount rejects revoked tokens and loads the account they name.
func (s *AccountService) liveAccount(ctx context.Context, info *auth.TokenInfo, ref models.SessionRef) (*models.Account, error) {
	revoked, err := s.revoked.IsRevoked(ctx, info.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", common.ErrUnauthorized)
	}

	acc, err := s.accounts().FindByID(ctx, ref.AccountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: account not found", common.ErrUnauthorized)
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	return acc, nil
}

func (s *AccountService) issueSession(acc *models.Account) (*LoginResult, error) {
	ref := models.SessionRef{AccountID: acc.ID, Role: acc.Role}

	access, err := s.tokens.Issue(auth.KindAccess, ref)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.Issue(auth.KindRefresh, ref)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &LoginResult{Account: acc, AccessToken: access, RefreshToken: refresh}, nil
}
