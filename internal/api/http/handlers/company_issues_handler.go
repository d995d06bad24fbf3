package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Davve420/CRM-tester/internal/api/dto"
	"github.com/Davve420/CRM-tester/internal/auth"
	"github.com/Davve420/CRM-tester/internal/service"
	apperrors "github.com/Davve420/CRM-tester/pkg/util/errorutil"
)

// CompanyIssuesHandler serves the scoped issue endpoints used by guests
// and company staff.
type CompanyIssuesHandler struct {
	issues *service.IssueService
}

// NewCompanyIssuesHandler constructs handler.
func NewCompanyIssuesHandler(issueService *service.IssueService) *CompanyIssuesHandler {
	return &CompanyIssuesHandler{issues: issueService}
}

// ListCompanyIssues GET /api/company/issues.
func (h *CompanyIssuesHandler) ListCompanyIssues(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	issues, err := h.issues.ListCompanyIssues(c.UserContext(), principal)
	if err != nil {
		return err
	}
	items := make([]dto.IssueResponse, 0, len(issues))
	for i := range issues {
		items = append(items, dto.IssueFromDomain(&issues[i]))
	}
	return c.JSON(fiber.Map{"issues": items})
}

// GetCompanyIssue GET /api/company/issues/:id.
func (h *CompanyIssuesHandler) GetCompanyIssue(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	issue, err := h.issues.GetIssueForPrincipal(c.UserContext(), c.Params("id"), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.IssueFromDomain(issue)})
}

// UpdateIssueState PUT /api/company/issues/:id/state.
func (h *CompanyIssuesHandler) UpdateIssueState(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateIssueStateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.issues.UpdateIssueState(c.UserContext(), c.Params("id"), principal, req.NewState); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "issue state was updated"})
}
