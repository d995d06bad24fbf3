package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Davve420/CRM-tester/internal/domain"
)

// CompanyRepository resolves companies by name so issue rows carry a
// consistent id/name pair at write time.
type CompanyRepository interface {
	GetByName(ctx context.Context, name string) (*domain.Company, error)
}

type companyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository returns a Postgres-backed implementation.
func NewCompanyRepository(pool *pgxpool.Pool) CompanyRepository {
	return &companyRepository{pool: pool}
}

func (r *companyRepository) GetByName(ctx context.Context, name string) (*domain.Company, error) {
	const query = `SELECT id, name, created_at FROM companies WHERE name=$1`
	var company domain.Company
	if err := r.pool.QueryRow(ctx, query, name).Scan(
		&company.ID,
		&company.Name,
		&company.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &company, nil
}
