package events

import (
	"time"

	"github.com/Davve420/CRM-tester/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIssueCreated      EventType = "issue_created"
	EventIssueStateChanged EventType = "issue_state_changed"
	EventMessagePosted     EventType = "message_posted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	IssueID   string      `json:"issue_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// IssueCreatedPayload carries everything the notification path needs
// without another issue lookup.
type IssueCreatedPayload struct {
	CompanyName   string `json:"company_name"`
	CustomerEmail string `json:"customer_email"`
	Subject       string `json:"subject"`
	Title         string `json:"title"`
	MessageBody   string `json:"message_body"`
}

// IssueStateChangedPayload payload.
type IssueStateChangedPayload struct {
	NewState domain.IssueState `json:"new_state"`
	Changer  string            `json:"changer"`
}

// MessagePostedPayload payload.
type MessagePostedPayload struct {
	Sender   domain.Sender `json:"sender"`
	Username string        `json:"username"`
}
