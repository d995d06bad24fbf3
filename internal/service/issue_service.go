package service

import (
	"context"
	"errors"
	"fmt"
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

// IssueService coordinates issue workflows.
type IssueService struct {
	issues         repository.IssueRepository
	companies      repository.CompanyRepository
	dispatcher     events.Dispatcher
	defaultCompany string
}

// IssueDependencies bundles collaborators for the issue service.
type IssueDependencies struct {
	IssueRepo      repository.IssueRepository
	CompanyRepo    repository.CompanyRepository
	Dispatcher     events.Dispatcher
	DefaultCompany string
}

// IssueCreateInput describes the public issue submission payload.
type IssueCreateInput struct {
	Email   string
	Title   string
	Subject string
	Message string
}

// NewIssueService constructs the service.
func NewIssueService(deps IssueDependencies) *IssueService {
	return &IssueService{
		issues:         deps.IssueRepo,
		companies:      deps.CompanyRepo,
		dispatcher:     deps.Dispatcher,
		defaultCompany: deps.DefaultCompany,
	}
}

// CreateIssue files a new issue in state NEW with created == latest. The
// created-issue event drives the customer notification; the issue is
// considered created regardless of what happens on that path.
func (s *IssueService) CreateIssue(ctx context.Context, input IssueCreateInput) (*domain.Issue, error) {
	email := strings.TrimSpace(input.Email)
	title := strings.TrimSpace(input.Title)
	subject := strings.TrimSpace(input.Subject)
	if email == "" || title == "" || subject == "" {
		return nil, apperrors.NewValidationError("email, title, subject required", nil)
	}

	company, err := s.companies.GetByName(ctx, s.defaultCompany)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	issue := &domain.Issue{
		ID:            uuid.NewString(),
		CompanyID:     company.ID,
		CompanyName:   company.Name,
		CustomerEmail: email,
		Subject:       subject,
		Title:         title,
		State:         domain.IssueStateNew,
		Created:       now,
		Latest:        now,
	}

	if err := s.issues.Create(ctx, issue); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventIssueCreated,
		IssueID: issue.ID,
		Payload: events.IssueCreatedPayload{
			CompanyName:   issue.CompanyName,
			CustomerEmail: issue.CustomerEmail,
			Subject:       issue.Subject,
			Title:         issue.Title,
			MessageBody:   input.Message,
		},
	})
	return issue, nil
}

// GetIssueByID looks up an issue without any scope check. Administrative
// surface only.
func (s *IssueService) GetIssueByID(ctx context.Context, id string) (*domain.Issue, error) {
	issue, err := s.issues.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("issue")
		}
		return nil, err
	}
	return issue, nil
}

// GetIssueForPrincipal looks up an issue and applies the access guard.
// A denied principal gets the same answer as a missing issue.
func (s *IssueService) GetIssueForPrincipal(ctx context.Context, id string, principal *domain.Principal) (*domain.Issue, error) {
	issue, err := s.issues.GetByID(ctx, id)
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

// ListAllIssues returns every issue, newest first. Administrative surface
// only; an empty slice is a valid result here.
func (s *IssueService) ListAllIssues(ctx context.Context) ([]domain.Issue, error) {
	return s.issues.ListAll(ctx)
}

// ListCompanyIssues returns the staff principal's company issues, newest
// first. Zero rows is reported as not found, matching the scoped message
// listing.
func (s *IssueService) ListCompanyIssues(ctx context.Context, principal *domain.Principal) ([]domain.Issue, error) {
	if principal == nil || !principal.Role.IsStaff() {
		return nil, apperrors.NewAccessDenied("issues")
	}
	issues, err := s.issues.ListByCompany(ctx, principal.CompanyID)
	if err != nil {
		return nil, err
	}
	if len(issues) == 0 {
		return nil, apperrors.NewNotFound("issues")
	}
	return issues, nil
}

// UpdateIssueState moves an issue to a new lifecycle state. The update is
// one conditional statement scoped to the principal's company, so a
// missing issue and a foreign issue both come back as a conflict.
func (s *IssueService) UpdateIssueState(ctx context.Context, id string, principal *domain.Principal, rawState string) error {
	if principal == nil || !principal.Role.IsStaff() {
		return apperrors.NewAccessDenied("issue")
	}
	state, err := domain.ParseIssueState(rawState)
	if err != nil {
		return apperrors.NewValidationError("unknown issue state", map[string]any{"state": rawState})
	}

	affected, err := s.issues.UpdateStateScoped(ctx, id, principal.CompanyID, state)
	if err != nil {
		return err
	}
	switch {
	case affected == 1:
		s.publishEvent(ctx, events.Event{
			Type:    events.EventIssueStateChanged,
			IssueID: id,
			Payload: events.IssueStateChangedPayload{
				NewState: state,
				Changer:  principal.Username,
			},
		})
		return nil
	case affected == 0:
		return apperrors.NewConflict("issue state was not updated")
	default:
		// issue ids are unique; more than one row means corrupted data
		return apperrors.NewInternalError(fmt.Errorf("state update affected %d rows for issue %s", affected, id))
	}
}

func (s *IssueService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
