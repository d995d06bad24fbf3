package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Davve420/CRM-tester/internal/api/dto"
	"github.com/Davve420/CRM-tester/internal/auth"
	"github.com/Davve420/CRM-tester/internal/service"
	apperrors "github.com/Davve420/CRM-tester/pkg/util/errorutil"
)

// MessagesHandler serves issue thread endpoints.
type MessagesHandler struct {
	messages *service.MessageService
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(messageService *service.MessageService) *MessagesHandler {
	return &MessagesHandler{messages: messageService}
}

// ListMessages GET /api/company/issues/:id/messages.
func (h *MessagesHandler) ListMessages(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	msgs, err := h.messages.ListMessages(c.UserContext(), c.Params("id"), principal)
	if err != nil {
		return err
	}
	items := make([]dto.MessageResponse, 0, len(msgs))
	for i := range msgs {
		items = append(items, dto.MessageFromDomain(&msgs[i]))
	}
	return c.JSON(fiber.Map{"messages": items})
}

// PostMessage POST /api/company/issues/:id/messages.
func (h *MessagesHandler) PostMessage(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	msg, err := h.messages.PostMessage(c.UserContext(), c.Params("id"), principal, req.Message)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.MessageFromDomain(msg)})
}
