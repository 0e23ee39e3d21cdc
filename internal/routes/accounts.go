package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/walletd/walletd/internal/account"
)

// RegisterAccountRoutes wires the account ledger endpoints.
func RegisterAccountRoutes(r fiber.Router, h *account.Handler) {
	r.Post("/accounts", h.Create)
	r.Get("/accounts/:id", h.Get)
	r.Get("/accounts/:id/balance", h.Balance)
	r.Post("/accounts/:id/deposits", h.Deposit)
	r.Post("/accounts/:id/withdrawals", h.Withdraw)
}
