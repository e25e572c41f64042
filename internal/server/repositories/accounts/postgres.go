package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/dbx"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation = "23505"

	emailConstraint = "accounts_email_key"
	phoneConstraint = "accounts_phone_number_key"
)

const accountColumns = `id, name, email, password_digest, phone_number, role, avatar_key, created_at, updated_at`

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*models.Account, error) {
	a := &models.Account{}
	var avatar sql.NullString
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordDigest, &a.PhoneNumber,
		&a.Role, &avatar, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if avatar.Valid {
		a.AvatarKey = &avatar.String
	}
	return a, nil
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg any) (*models.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM accounts
		WHERE email = $1`
	return r.findOne(ctx, query, email)
}

func (r *PostgresRepository) FindByPhone(ctx context.Context, phone int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM accounts
		WHERE phone_number = $1`
	return r.findOne(ctx, query, phone)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *PostgresRepository) Create(ctx context.Context, acc models.NewAccount) (*models.Account, error) {
	query := `
		INSERT INTO accounts (name, email, password_digest, phone_number, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + accountColumns

	a, err := scanAccount(r.db.QueryRowContext(ctx, query,
		acc.Name, acc.Email, acc.PasswordDigest, acc.PhoneNumber, common.DefaultRole))
	if err != nil {
		return nil, mapInsertError(err)
	}
	return a, nil
}

// mapInsertError turns unique violations on the known constraints into the
// matching conflict sentinels.
func mapInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case emailConstraint:
			return fmt.Errorf("%w: %s", common.ErrDuplicateEmail, pgErr.Detail)
		case phoneConstraint:
			return fmt.Errorf("%w: %s", common.ErrDuplicatePhone, pgErr.Detail)
		}
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) List(ctx context.Context, page models.Page) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY created_at, id
		OFFSET $1`
	args := []any{page.Offset}
	if page.Limit > 0 {
		query += ` LIMIT $2`
		args = append(args, page.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	res := make([]models.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		res = append(res, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return res, nil
}

func (r *PostgresRepository) SetAvatar(ctx context.Context, id string, key string) (*string, error) {
	var previous *string
	err := dbx.InTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		var old sql.NullString
		err := tx.QueryRowContext(ctx, `
			SELECT avatar_key FROM accounts
			WHERE id = $1
			FOR UPDATE`, id).Scan(&old)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("db error: %w", err)
		}
		if old.Valid {
			previous = &old.String
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE accounts SET avatar_key = $2, updated_at = now()
			WHERE id = $1`, id, key); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return previous, nil
}
