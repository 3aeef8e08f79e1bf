package economy

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/guildbank/lending/internal/domain/port"
	pgshared "github.com/guildbank/lending/pkg/postgres"
)

// PostgresWallet implements port.Economy over the wallets table. Withdraw
// locks the wallet row so concurrent movements never overdraw it.
type PostgresWallet struct {
	pool *pgxpool.Pool
}

// NewPostgresWallet creates the wallet-backed economy adapter.
func NewPostgresWallet(pool *pgxpool.Pool) *PostgresWallet {
	return &PostgresWallet{pool: pool}
}

// Withdraw removes funds from an entity's wallet, failing with
// ErrInsufficientFunds rather than going negative.
func (w *PostgresWallet) Withdraw(ctx context.Context, entityID string, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("withdrawal amount must be positive")
	}
	return pgshared.WithTransaction(ctx, w.pool, func(tx pgx.Tx) error {
		var balance decimal.Decimal
		err := tx.QueryRow(ctx,
			`SELECT balance FROM wallets WHERE entity_id = $1 FOR UPDATE`, entityID,
		).Scan(&balance)
		if errors.Is(err, pgx.ErrNoRows) {
			return port.ErrInsufficientFunds
		}
		if err != nil {
			return port.NewPersistenceError("wallet.lock", err)
		}
		if balance.LessThan(amount) {
			return port.ErrInsufficientFunds
		}
		_, err = tx.Exec(ctx,
			`UPDATE wallets SET balance = balance - $2 WHERE entity_id = $1`, entityID, amount,
		)
		if err != nil {
			return port.NewPersistenceError("wallet.withdraw", err)
		}
		return nil
	})
}

// Deposit adds funds to an entity's wallet, creating it on first use.
func (w *PostgresWallet) Deposit(ctx context.Context, entityID string, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("deposit amount must be positive")
	}
	query := `
		INSERT INTO wallets (entity_id, balance)
		VALUES ($1, $2)
		ON CONFLICT (entity_id) DO UPDATE SET balance = wallets.balance + $2
	`
	if _, err := w.pool.Exec(ctx, query, entityID, amount); err != nil {
		return port.NewPersistenceError("wallet.deposit", err)
	}
	return nil
}

// Balance returns the entity's current funds; a missing wallet is zero.
func (w *PostgresWallet) Balance(ctx context.Context, entityID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := w.pool.QueryRow(ctx,
		`SELECT balance FROM wallets WHERE entity_id = $1`, entityID,
	).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Decimal{}, port.NewPersistenceError("wallet.balance", err)
	}
	return balance, nil
}

// Has reports whether the entity can cover the amount.
func (w *PostgresWallet) Has(ctx context.Context, entityID string, amount decimal.Decimal) (bool, error) {
	balance, err := w.Balance(ctx, entityID)
	if err != nil {
		return false, err
	}
	return balance.GreaterThanOrEqual(amount), nil
}
