package dto

import (
	"time"

	"github.com/Davve420/CRM-tester/internal/domain"
)

// CreateIssueRequest is the public issue submission payload.
type CreateIssueRequest struct {
	Email   string `json:"email"`
	Title   string `json:"title"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// UpdateIssueStateRequest carries the requested lifecycle state.
type UpdateIssueStateRequest struct {
	NewState string `json:"new_state"`
}

// IssueResponse is the wire shape of an issue.
type IssueResponse struct {
	ID            string            `json:"id"`
	CompanyName   string            `json:"company_name"`
	CustomerEmail string            `json:"customer_email"`
	Subject       string            `json:"subject"`
	Title         string            `json:"title"`
	State         domain.IssueState `json:"state"`
	Created       time.Time         `json:"created"`
	Latest        time.Time         `json:"latest"`
}

// IssueFromDomain maps a domain issue to its response shape.
func IssueFromDomain(issue *domain.Issue) IssueResponse {
	return IssueResponse{
		ID:            issue.ID,
		CompanyName:   issue.CompanyName,
		CustomerEmail: issue.CustomerEmail,
		Subject:       issue.Subject,
		Title:         issue.Title,
		State:         issue.State,
		Created:       issue.Created,
		Latest:        issue.Latest,
	}
}
