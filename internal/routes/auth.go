package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/walletd/walletd/internal/token"
)

// RegisterAuthRoutes wires authentication endpoints. Refresh and logout
// read the Authorization header themselves: a missing header is a 401 for
// refresh but a 400 for logout.
func RegisterAuthRoutes(r fiber.Router, h *token.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	if rateLimiter != nil {
		group.Post("/login", rateLimiter, h.Login)
	} else {
		group.Post("/login", h.Login)
	}
	group.Post("/refresh", h.Refresh)
	group.Post("/logout", h.Logout)
}
