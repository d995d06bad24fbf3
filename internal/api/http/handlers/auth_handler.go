package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Davve420/CRM-tester/internal/api/dto"
	"github.com/Davve420/CRM-tester/internal/service"
	apperrors "github.com/Davve420/CRM-tester/pkg/util/errorutil"
)

// AuthHandler serves login.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	account, token, exp, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     token,
		Role:      string(account.Role),
		ExpiresAt: exp,
	}})
}
