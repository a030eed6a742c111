package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/realtydesk/realtydesk/internal/models"
	"github.com/realtydesk/realtydesk/internal/services"
	"github.com/realtydesk/realtydesk/internal/token"
	"github.com/realtydesk/realtydesk/internal/types"
)

// Auth validates the bearer token on the request, loads the active user
// behind it and stores both in the request context.
func Auth(db *gorm.DB, tokens *token.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := bearerToken(c)
		if raw == "" {
			return types.Unauthenticated("No authentication token, access denied", "auth.token.missing")
		}

		userID, err := tokens.Verify(raw)
		if err != nil {
			return types.Unauthenticated("Token verification failed, authorization denied", "auth.token.invalid")
		}

		user, err := services.GetActiveUser(db, userID)
		if err != nil {
			return types.Unauthenticated("Token verification failed, authorization denied", "auth.user.inactive")
		}

		c.Locals("user", user)
		c.Locals("token", raw)

		return c.Next()
	}
}

// Admin validates that the authenticated user has the admin role
func Admin() fiber.Handler {
	return requireRole("auth.role.admin", func(u *models.User) bool {
		return u.IsAdmin()
	})
}

// Agent validates that the authenticated user has the agent or admin role
func Agent() fiber.Handler {
	return requireRole("auth.role.agent", func(u *models.User) bool {
		return u.IsAgent()
	})
}

// requireRole builds a handler that rejects requests whose context user
// fails the role predicate. Must run after Auth.
func requireRole(errorType string, allowed func(*models.User) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals("user").(*models.User)
		if !ok {
			return types.Unauthenticated("No authentication token, access denied", "auth.token.missing")
		}
		if !allowed(user) {
			return types.Forbidden("Access denied: insufficient permissions", errorType)
		}
		return c.Next()
	}
}

// bearerToken extracts the token from the Authorization header, accepting
// both "Bearer <token>" and a bare token value.
func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return strings.TrimSpace(header)
}
