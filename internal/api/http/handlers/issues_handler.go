package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Davve420/CRM-tester/internal/api/dto"
	"github.com/Davve420/CRM-tester/internal/service"
	apperrors "github.com/Davve420/CRM-tester/pkg/util/errorutil"
)

// IssuesHandler serves the public submission endpoint and the
// administrative issue lookups.
type IssuesHandler struct {
	issues *service.IssueService
}

// NewIssuesHandler constructs handler.
func NewIssuesHandler(issueService *service.IssueService) *IssuesHandler {
	return &IssuesHandler{issues: issueService}
}

// CreateIssue POST /api/issues.
func (h *IssuesHandler) CreateIssue(c *fiber.Ctx) error {
	var req dto.CreateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	issue, err := h.issues.CreateIssue(c.UserContext(), service.IssueCreateInput{
		Email:   req.Email,
		Title:   req.Title,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.IssueFromDomain(issue)})
}

// GetIssue GET /api/issues/:id.
func (h *IssuesHandler) GetIssue(c *fiber.Ctx) error {
	issue, err := h.issues.GetIssueByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.IssueFromDomain(issue)})
}

// ListIssues GET /api/issues.
func (h *IssuesHandler) ListIssues(c *fiber.Ctx) error {
	issues, err := h.issues.ListAllIssues(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.IssueResponse, 0, len(issues))
	for i := range issues {
		items = append(items, dto.IssueFromDomain(&issues[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
