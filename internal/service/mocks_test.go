package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Davve420/CRM-tester/internal/domain"
)

type mockIssueRepo struct {
	issues map[string]*domain.Issue
	// forcedAffected overrides the row count returned by
	// UpdateStateScoped when >= 0
	forcedAffected int64
	updateCalls    int
}

func newMockIssueRepo() *mockIssueRepo {
	return &mockIssueRepo{issues: make(map[string]*domain.Issue), forcedAffected: -1}
}

func (m *mockIssueRepo) Create(ctx context.Context, issue *domain.Issue) error {
	copied := *issue
	m.issues[issue.ID] = &copied
	return nil
}

func (m *mockIssueRepo) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	issue, ok := m.issues[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *issue
	return &copied, nil
}

func (m *mockIssueRepo) ListAll(ctx context.Context) ([]domain.Issue, error) {
	var result []domain.Issue
	for _, issue := range m.issues {
		result = append(result, *issue)
	}
	return result, nil
}

func (m *mockIssueRepo) ListByCompany(ctx context.Context, companyID string) ([]domain.Issue, error) {
	var result []domain.Issue
	for _, issue := range m.issues {
		if issue.CompanyID == companyID {
			result = append(result, *issue)
		}
	}
	return result, nil
}

func (m *mockIssueRepo) UpdateStateScoped(ctx context.Context, id, companyID string, state domain.IssueState) (int64, error) {
	m.updateCalls++
	if m.forcedAffected >= 0 {
		return m.forcedAffected, nil
	}
	issue, ok := m.issues[id]
	if !ok || issue.CompanyID != companyID {
		return 0, nil
	}
	issue.State = state
	issue.Latest = time.Now().UTC()
	return 1, nil
}

type mockMessageRepo struct {
	messages     map[string][]domain.Message
	nextID       int64
	failedInsert bool
}

func newMockMessageRepo() *mockMessageRepo {
	return &mockMessageRepo{messages: make(map[string][]domain.Message)}
}

func (m *mockMessageRepo) Create(ctx context.Context, msg *domain.Message) (int64, error) {
	if m.failedInsert {
		return 0, nil
	}
	m.nextID++
	msg.ID = m.nextID
	msg.Time = time.Now().UTC()
	m.messages[msg.IssueID] = append(m.messages[msg.IssueID], *msg)
	return 1, nil
}

func (m *mockMessageRepo) ListByIssue(ctx context.Context, issueID string) ([]domain.Message, error) {
	return m.messages[issueID], nil
}

type mockCompanyRepo struct {
	company *domain.Company
}

func (m *mockCompanyRepo) GetByName(ctx context.Context, name string) (*domain.Company, error) {
	if m.company == nil || m.company.Name != name {
		return nil, pgx.ErrNoRows
	}
	return m.company, nil
}
