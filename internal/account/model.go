package account

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a single-currency balance owned by one user. Balance is a
// fixed-point decimal; it is only ever mutated through the store's atomic
// guarded update, never via read-modify-write in the service tier.
//
// The JSON form doubles as the cache value under `account:<accountId>`.
type Account struct {
	ID          int64           `json:"accountId,string"`
	OwnerUserID int64           `json:"ownerUserId,string"`
	Currency    string          `json:"currency"`
	Balance     decimal.Decimal `json:"balance"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// NewAccount carries the fields required to insert an account row.
type NewAccount struct {
	OwnerUserID int64
	Currency    string
	Balance     decimal.Decimal
}
