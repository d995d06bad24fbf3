package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Davve420/CRM-tester/internal/domain"
)

// IssueRepository encapsulates issue persistence.
type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue) error
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	ListAll(ctx context.Context) ([]domain.Issue, error)
	ListByCompany(ctx context.Context, companyID string) ([]domain.Issue, error)
	// UpdateStateScoped applies the conditional state update in a single
	// statement and returns the affected-row count. Zero rows means the
	// issue does not exist or belongs to another company; the repository
	// does not distinguish the two.
	UpdateStateScoped(ctx context.Context, id, companyID string, state domain.IssueState) (int64, error)
}

type issueRepository struct {
	pool *pgxpool.Pool
}

// NewIssueRepository instantiates repository.
func NewIssueRepository(pool *pgxpool.Pool) IssueRepository {
	return &issueRepository{pool: pool}
}

const issueColumns = `id, company_id, company_name, customer_email, subject, title, state, created, latest`

func (r *issueRepository) Create(ctx context.Context, issue *domain.Issue) error {
	const query = `
        INSERT INTO issues (id, company_id, company_name, customer_email, subject, title, state, created, latest)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := r.pool.Exec(ctx, query,
		issue.ID,
		issue.CompanyID,
		issue.CompanyName,
		issue.CustomerEmail,
		issue.Subject,
		issue.Title,
		issue.State,
		issue.Created,
		issue.Latest,
	)
	return err
}

func (r *issueRepository) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	const query = `SELECT ` + issueColumns + ` FROM issues WHERE id=$1`
	var issue domain.Issue
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&issue.ID,
		&issue.CompanyID,
		&issue.CompanyName,
		&issue.CustomerEmail,
		&issue.Subject,
		&issue.Title,
		&issue.State,
		&issue.Created,
		&issue.Latest,
	); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (r *issueRepository) ListAll(ctx context.Context) ([]domain.Issue, error) {
	const query = `SELECT ` + issueColumns + ` FROM issues ORDER BY created DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIssues(rows)
}

func (r *issueRepository) ListByCompany(ctx context.Context, companyID string) ([]domain.Issue, error) {
	const query = `SELECT ` + issueColumns + ` FROM issues WHERE company_id=$1 ORDER BY created DESC`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIssues(rows)
}

func (r *issueRepository) UpdateStateScoped(ctx context.Context, id, companyID string, state domain.IssueState) (int64, error) {
	const query = `UPDATE issues SET state=$1, latest=NOW() WHERE id=$2 AND company_id=$3`
	cmd, err := r.pool.Exec(ctx, query, state, id, companyID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanIssues(rows pgx.Rows) ([]domain.Issue, error) {
	var result []domain.Issue
	for rows.Next() {
		var issue domain.Issue
		if err := rows.Scan(
			&issue.ID,
			&issue.CompanyID,
			&issue.CompanyName,
			&issue.CustomerEmail,
			&issue.Subject,
			&issue.Title,
			&issue.State,
			&issue.Created,
			&issue.Latest,
		); err != nil {
			return nil, err
		}
		result = append(result, issue)
	}
	return result, rows.Err()
}
