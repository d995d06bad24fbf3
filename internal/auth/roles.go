package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/Davve420/CRM-tester/pkg/util/errorutil"
)

// RequireStaff ensures the caller is a company-affiliated staff principal.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || !principal.Role.IsStaff() {
			return apperrors.NewForbidden("staff role required")
		}
		return c.Next()
	}
}

// RequireAnyRole ensures the caller is authenticated (guest or staff).
func RequireAnyRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
