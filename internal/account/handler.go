package account

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/walletd/walletd/internal/apperr"
)

// Handler exposes account HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds an account HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	OwnerUserID    string           `json:"ownerUserId"`
	Currency       string           `json:"currency"`
	InitialBalance *decimal.Decimal `json:"initialBalance"`
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// Create opens an account for the given owner.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.InvalidArgument("invalid JSON in request body")
	}

	ownerID, err := strconv.ParseInt(req.OwnerUserID, 10, 64)
	if err != nil {
		return apperr.InvalidArgument("ownerUserId must be numeric")
	}

	input := CreateInput{OwnerUserID: ownerID, Currency: req.Currency}
	if req.InitialBalance != nil {
		input.InitialBalance = *req.InitialBalance
	}

	acct, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(acct)
}

// Get returns the full account record.
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	acct, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(acct)
}

// Balance returns the account balance.
func (h *Handler) Balance(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	acct, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"accountId": strconv.FormatInt(acct.ID, 10),
		"balance":   acct.Balance,
	})
}

// Deposit credits the account.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	return h.mutate(c, h.service.Deposit)
}

// Withdraw debits the account.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	return h.mutate(c, h.service.Withdraw)
}

func (h *Handler) mutate(c *fiber.Ctx, op func(ctx context.Context, id int64, amount decimal.Decimal) (Account, error)) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.InvalidArgument("invalid JSON in request body")
	}
	acct, err := op(c.UserContext(), id, req.Amount)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(acct)
}

func pathID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, apperr.InvalidArgument("account id must be numeric")
	}
	return id, nil
}
