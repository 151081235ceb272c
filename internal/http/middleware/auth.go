package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	// UserIDLocalKey is the key under which the authenticated user's ID is
	// stored in Fiber's context locals.
	UserIDLocalKey = "user_id"

	bearerPrefix = "Bearer "
)

// TokenVerifier resolves a bearer token to a user ID.
// repository.TokenRepository satisfies this interface.
type TokenVerifier interface {
	UserIDByToken(ctx context.Context, token string) (string, error)
}

// Auth authenticates requests via the Authorization header. On success the
// resolved user ID is stored in context locals; handlers read it with
// UserIDFromCtx and pass it explicitly into the service layer. Missing or
// invalid tokens get a 401 with no further detail.
func Auth(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			return unauthenticated(c)
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		if token == "" {
			return unauthenticated(c)
		}

		userID, err := verifier.UserIDByToken(c.UserContext(), token)
		if err != nil || userID == "" {
			return unauthenticated(c)
		}

		c.Locals(UserIDLocalKey, userID)
		return c.Next()
	}
}

// UserIDFromCtx returns the authenticated user's ID, or "" when the request
// did not pass through Auth.
func UserIDFromCtx(c *fiber.Ctx) string {
	if v, ok := c.Locals(UserIDLocalKey).(string); ok {
		return v
	}
	return ""
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": "Unauthenticated.",
	})
}
