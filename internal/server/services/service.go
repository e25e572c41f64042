// Package services contains the account service's business logic: the
// activation flow, the session issuer with its request guard, the account
// directory and avatar uploads.
package services

import (
	"database/sql"

	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/dmitrijs2005/accounts/internal/server/auth"
	"github.com/dmitrijs2005/accounts/internal/server/mail"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/revokedtokens"
)

// AccountService implements registration, activation, login and the account
// directory. It holds no per-request state.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	revoked     revokedtokens.Repository
	tokens      *auth.TokenCodec
	hasher      auth.PasswordHasher
	mailer      mail.Sender
	log         logging.Logger

	phoneRegion string

	// dummyDigest is verified for unknown emails so that login takes the
	// same time whether or not the account exists.
	dummyDigest string
}

type Option func(*AccountService)

// WithPhoneRegion sets the region used to parse phone numbers without a
// country prefix. The default is "US".
func WithPhoneRegion(region string) Option {
	return func(s *AccountService) { s.phoneRegion = region }
}

// WithRevocation enables the token denylist.
func WithRevocation(r revokedtokens.Repository) Option {
	return func(s *AccountService) { s.revoked = r }
}

func WithLogger(l logging.Logger) Option {
	return func(s *AccountService) { s.log = l }
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenCodec,
	hasher auth.PasswordHasher, mailer mail.Sender, opts ...Option) (*AccountService, error) {
	s := &AccountService{
		db:          db,
		repomanager: m,
		revoked:     revokedtokens.Nop{},
		tokens:      tokens,
		hasher:      hasher,
		mailer:      mailer,
		log:         logging.Nop{},
		phoneRegion: "US",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("module", "accounts")

	digest, err := hasher.Hash("dummy-password-for-timing")
	if err != nil {
		return nil, err
	}
	s.dummyDigest = digest

	return s, nil
}

func (s *AccountService) accounts() accounts.Repository {
	return s.repomanager.Accounts(s.db)
}
