package token

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/walletd/walletd/internal/apperr"
	"github.com/walletd/walletd/internal/identity"
)

// Handler exposes the auth endpoints for login, refresh and logout.
type Handler struct {
	ids *identity.Service
	svc *Service
}

// NewHandler builds an auth HTTP handler.
func NewHandler(ids *identity.Service, svc *Service) *Handler {
	return &Handler{ids: ids, svc: svc}
}

type loginRequest struct {
	LoginType  string `json:"loginType"`
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresIn int64  `json:"expiresIn"`
}

// Login validates credentials and issues a bearer token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.InvalidArgument("invalid JSON in request body")
	}

	user, err := h.ids.Authenticate(c.UserContext(), identity.LoginType(req.LoginType), req.Identifier, req.Password)
	if err != nil {
		return err
	}

	signed, err := h.svc.Issue(user)
	if err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(tokenResponse{
		Token:     signed,
		TokenType: "Bearer",
		ExpiresIn: int64(h.svc.TTL().Seconds()),
	})
}

// Refresh verifies the presented token and returns a replacement with a
// fresh expiry window.
func (h *Handler) Refresh(c *fiber.Ctx) error {
	raw, ok := FromHeader(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return apperr.Unauthorized("missing bearer token")
	}

	signed, err := h.svc.Refresh(c.UserContext(), raw)
	if err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(tokenResponse{
		Token:     signed,
		TokenType: "Bearer",
		ExpiresIn: int64(h.svc.TTL().Seconds()),
	})
}

// Logout adds the presented token to the revocation set. A request
// without an Authorization header is malformed rather than unauthorized.
func (h *Handler) Logout(c *fiber.Ctx) error {
	raw, ok := FromHeader(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return apperr.InvalidArgument("missing bearer token")
	}

	if err := h.svc.Revoke(c.UserContext(), raw); err != nil {
		return apperr.Cache(err)
	}

	return c.SendStatus(http.StatusOK)
}
