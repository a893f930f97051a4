package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// AccountRepository defines persistence access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	UpdateProfile(ctx context.Context, id int64, displayName, email string) (*domain.Account, error)
	UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error
	UpdatePasswordByEmailAndCode(ctx context.Context, email, code, passwordHash string) (bool, error)
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

// Create inserts the account with the role copied from its roster entry in the same
// statement; account.Role is overwritten with the stored value. A missing roster code
// yields domain.ErrInvalidCode and a taken email domain.ErrDuplicateEmail.
func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (display_name, email, password_hash, role, roster_code)
        SELECT $1, $2, $3, r.role, r.code FROM roster_entries r WHERE r.code=$4
        RETURNING id, role, created_at`

	err := r.pool.QueryRow(ctx, query,
		account.DisplayName,
		account.Email,
		account.PasswordHash,
		account.RosterCode,
	).Scan(&account.ID, &account.Role, &account.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidCode
		}
		err = translate(err)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidCode
		}
		return err
	}
	return nil
}

// UpdateProfile overwrites display name and email only.
func (r *accountRepository) UpdateProfile(ctx context.Context, id int64, displayName, email string) (*domain.Account, error) {
	const query = `
        UPDATE accounts SET display_name=$1, email=$2
        WHERE id=$3
        RETURNING id, display_name, email, password_hash, role, roster_code, created_at`

	return scanAccount(r.pool.QueryRow(ctx, query, displayName, email, id))
}

func (r *accountRepository) UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error {
	const query = `UPDATE accounts SET password_hash=$1 WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdatePasswordByEmailAndCode rewrites the hash only when both email and roster code match.
func (r *accountRepository) UpdatePasswordByEmailAndCode(ctx context.Context, email, code, passwordHash string) (bool, error) {
	const query = `UPDATE accounts SET password_hash=$1 WHERE email=$2 AND roster_code=$3`

	cmd, err := r.pool.Exec(ctx, query, passwordHash, email, code)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	const query = `
        SELECT id, display_name, email, password_hash, role, roster_code, created_at
        FROM accounts WHERE id=$1`

	return scanAccount(r.pool.QueryRow(ctx, query, id))
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `
        SELECT id, display_name, email, password_hash, role, roster_code, created_at
        FROM accounts WHERE email=$1`

	return scanAccount(r.pool.QueryRow(ctx, query, email))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var account domain.Account
	if err := row.Scan(
		&account.ID,
		&account.DisplayName,
		&account.Email,
		&account.PasswordHash,
		&account.Role,
		&account.RosterCode,
		&account.CreatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &account, nil
}
