package auth

import (
	"context"

	"github.com/dmitrijs2005/accounts/internal/server/models"
)

// Principal is what the request guard attaches to an authenticated request.
// It is request-scoped; logout clears it in place.
type Principal struct {
	Account      *models.Account
	AccessToken  string
	RefreshToken string

	Access  *TokenInfo
	Refresh *TokenInfo
}

// Clear drops the account and token fields.
func (p *Principal) Clear() {
	p.Account = nil
	p.AccessToken = ""
	p.RefreshToken = ""
	p.Access = nil
	p.Refresh = nil
}

type ctxKey string

const principalKey ctxKey = "principal"

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the principal attached by the guard, if any.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok && p != nil
}
