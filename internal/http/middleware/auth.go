package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	// AdminIDLocalKey is the key under which the authenticated admin's ID is
	// stored in Fiber's context locals.
	AdminIDLocalKey = "admin_id"
	// AdminUsernameLocalKey is the locals key for the admin's username.
	AdminUsernameLocalKey = "admin_username"
)

// TokenParser validates a bearer token and returns its admin claims.
type TokenParser interface {
	ParseToken(token string) (int64, string, error)
}

// RequireAuth rejects requests without a valid token. The token is read from
// the Authorization header (Bearer scheme) or the x-auth-token header, and
// the resolved admin claims are stored in locals for handlers.
func RequireAuth(parser TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authentication token")
		}

		adminID, username, err := parser.ParseToken(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(AdminIDLocalKey, adminID)
		c.Locals(AdminUsernameLocalKey, username)

		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) string {
	if auth := c.Get(fiber.HeaderAuthorization); auth != "" {
		if strings.HasPrefix(auth, "Bearer ") {
			return strings.TrimPrefix(auth, "Bearer ")
		}
		return auth
	}
	return c.Get("x-auth-token")
}
