package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/walletd/walletd/internal/apperr"
	"github.com/walletd/walletd/internal/token"
)

// Locals keys populated by BearerAuth for downstream handlers.
const (
	LocalUserID   = "user_id"
	LocalUsername = "username"
	LocalEmail    = "email"
)

// BearerAuth guards protected routes. It extracts the bearer token from
// the Authorization header, verifies it and attaches the caller identity
// to the request context. Failures surface as a generic 401; verification
// detail stays server-side.
func BearerAuth(tokens *token.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := token.FromHeader(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return apperr.Unauthorized("missing bearer token")
		}

		claims, err := tokens.Verify(c.UserContext(), raw)
		if err != nil {
			return err
		}

		c.Locals(LocalUserID, claims.Subject)
		c.Locals(LocalUsername, claims.Username)
		c.Locals(LocalEmail, claims.Email)
		return c.Next()
	}
}
