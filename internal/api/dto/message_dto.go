package dto

import (
	"time"

	"github.com/Davve420/CRM-tester/internal/domain"
)

// CreateMessageRequest payload. Sender is deliberately absent: it is
// derived from the authenticated principal.
type CreateMessageRequest struct {
	Message string `json:"message"`
}

// MessageResponse represents one thread entry.
type MessageResponse struct {
	Message  string        `json:"message"`
	Sender   domain.Sender `json:"sender"`
	Username string        `json:"username"`
	Time     time.Time     `json:"time"`
}

// MessageFromDomain maps a domain message to its response shape.
func MessageFromDomain(msg *domain.Message) MessageResponse {
	return MessageResponse{
		Message:  msg.Body,
		Sender:   msg.Sender,
		Username: msg.Username,
		Time:     msg.Time,
	}
}
