package domain

import "time"

// Sender indicates which side of the conversation authored a message.
// It is always derived from the posting principal's role, never taken
// from client input.
type Sender string

const (
	SenderCustomer Sender = "CUSTOMER"
	SenderSupport  Sender = "SUPPORT"
)

// SenderForRole maps a principal role to the message sender category.
func SenderForRole(role Role) Sender {
	if role == RoleGuest {
		return SenderCustomer
	}
	return SenderSupport
}

// Message is one entry in an issue's conversation thread. Messages are
// immutable once written.
type Message struct {
	ID       int64
	IssueID  string
	Body     string
	Sender   Sender
	Username string
	Time     time.Time
}
