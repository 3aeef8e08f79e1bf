package port

import (
	"context"

	"github.com/shopspring/decimal"
)

// Economy is the shared virtual-currency ledger the engine moves funds
// through. Withdraw fails with ErrInsufficientFunds when the entity cannot
// cover the amount; the engine never overdraws a wallet.
type Economy interface {
	Withdraw(ctx context.Context, entityID string, amount decimal.Decimal) error
	Deposit(ctx context.Context, entityID string, amount decimal.Decimal) error
	Balance(ctx context.Context, entityID string) (decimal.Decimal, error)
	Has(ctx context.Context, entityID string, amount decimal.Decimal) (bool, error)
}
