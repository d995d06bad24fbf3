package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Davve420/CRM-tester/internal/access"
	"github.com/Davve420/CRM-tester/internal/domain"
	"github.com/Davve420/CRM-tester/internal/events"
	"github.com/Davve420/CRM-tester/internal/repository"
	apperrors "github.com/Davve420/CRM-tester/pkg/util/errorutil"
)

// MessageService coordinates issue thread reads and writes.
type MessageService struct {
	issues     repository.IssueRepository
	messages   repository.MessageRepository
	dispatcher events.Dispatcher
}

// MessageDependencies bundles collaborators for the message service.
type MessageDependencies struct {
	IssueRepo   repository.IssueRepository
	MessageRepo repository.MessageRepository
	Dispatcher  events.Dispatcher
}

// NewMessageService constructs the service.
func NewMessageService(deps MessageDependencies) *MessageService {
	return &MessageService{
		issues:     deps.IssueRepo,
		messages:   deps.MessageRepo,
		dispatcher: deps.Dispatcher,
	}
}

// ListMessages returns an issue's thread in time order. The guarded issue
// lookup folds existence and scope into one answer; an empty thread is
// reported as not found.
func (s *MessageService) ListMessages(ctx context.Context, issueID string, principal *domain.Principal) ([]domain.Message, error) {
	if _, err := s.guardedIssue(ctx, issueID, principal); err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListByIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, apperrors.NewNotFound("messages")
	}
	return msgs, nil
}

// PostMessage appends one message to an issue the principal can access.
// The sender category comes from the principal's role, never from input.
func (s *MessageService) PostMessage(ctx context.Context, issueID string, principal *domain.Principal, body string) (*domain.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperrors.NewValidationError("message body required", nil)
	}
	issue, err := s.guardedIssue(ctx, issueID, principal)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		IssueID:  issue.ID,
		Body:     body,
		Sender:   domain.SenderForRole(principal.Role),
		Username: principal.Username,
	}
	affected, err := s.messages.Create(ctx, msg)
	if err != nil {
		return nil, err
	}
	if affected != 1 {
		// the guard passed, so a zero-row insert is a store fault and
		// must not be mistaken for the expected denied path
		return nil, apperrors.NewConflict("message was not created")
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventMessagePosted,
			IssueID:   issue.ID,
			Timestamp: time.Now(),
			Payload: events.MessagePostedPayload{
				Sender:   msg.Sender,
				Username: msg.Username,
			},
		})
	}
	return msg, nil
}

func (s *MessageService) guardedIssue(ctx context.Context, issueID string, principal *domain.Principal) (*domain.Issue, error) {
	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("issue")
		}
		return nil, err
	}
	if !access.CanAccessIssue(principal, issue) {
		return nil, apperrors.NewAccessDenied("issue")
	}
	return issue, nil
}
