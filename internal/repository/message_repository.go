package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Davve420/CRM-tester/internal/domain"
)

// MessageRepository manages issue thread messages.
type MessageRepository interface {
	// Create inserts one message with a server-assigned timestamp and
	// returns the affected-row count so the caller can detect a write
	// that silently did nothing.
	Create(ctx context.Context, msg *domain.Message) (int64, error)
	ListByIssue(ctx context.Context, issueID string) ([]domain.Message, error)
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository builds repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) (int64, error) {
	const query = `
        INSERT INTO issue_messages (issue_id, body, sender, username, time)
        VALUES ($1,$2,$3,$4,NOW())
        RETURNING id, time`
	if err := r.pool.QueryRow(ctx, query,
		msg.IssueID,
		msg.Body,
		msg.Sender,
		msg.Username,
	).Scan(&msg.ID, &msg.Time); err != nil {
		return 0, err
	}
	return 1, nil
}

func (r *messageRepository) ListByIssue(ctx context.Context, issueID string) ([]domain.Message, error) {
	const query = `
        SELECT id, issue_id, body, sender, username, time
        FROM issue_messages WHERE issue_id=$1 ORDER BY time ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.IssueID,
			&msg.Body,
			&msg.Sender,
			&msg.Username,
			&msg.Time,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}
