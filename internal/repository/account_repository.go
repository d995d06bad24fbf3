package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Davve420/CRM-tester/internal/domain"
)

// AccountRepository defines persistence access for login accounts.
type AccountRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	const query = `
        SELECT id, username, password_hash, role, company_id, company_name, created_at
        FROM accounts WHERE username=$1`
	var account domain.Account
	if err := r.pool.QueryRow(ctx, query, username).Scan(
		&account.ID,
		&account.Username,
		&account.PasswordHash,
		&account.Role,
		&account.CompanyID,
		&account.CompanyName,
		&account.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}
