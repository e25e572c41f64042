package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/accounts/internal/dbx"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/revokedtokens"
)

// RepositoryManager vends repositories bound to a DB handle and owns the
// schema. The in-memory implementation ignores the handle.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	RevokedTokens(db dbx.DBTX) revokedtokens.Repository
}
