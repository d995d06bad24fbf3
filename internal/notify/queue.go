package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// MailJob is one queued outbound email.
type MailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	IssueID string `json:"issue_id"`
}

// MailQueue decouples mail delivery from the request that triggered it.
type MailQueue interface {
	Enqueue(ctx context.Context, job MailJob) error
	// Dequeue blocks up to the given timeout; a nil job with nil error
	// means the wait timed out.
	Dequeue(ctx context.Context, timeout time.Duration) (*MailJob, error)
}

const mailQueueKey = "notify:mail_queue"

type redisMailQueue struct {
	client *redis.Client
}

// NewRedisMailQueue builds a Redis-list backed queue.
func NewRedisMailQueue(client *redis.Client) MailQueue {
	return &redisMailQueue{client: client}
}

func (q *redisMailQueue) Enqueue(ctx context.Context, job MailJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, mailQueueKey, payload).Err()
}

func (q *redisMailQueue) Dequeue(ctx context.Context, timeout time.Duration) (*MailJob, error) {
	res, err := q.client.BRPop(ctx, timeout, mailQueueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	// BRPOP returns [key, value]
	if len(res) != 2 {
		return nil, nil
	}
	var job MailJob
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, err
	}
	return &job, nil
}
