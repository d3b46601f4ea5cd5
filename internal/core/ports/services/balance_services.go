package services

import (
	"context"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceSvc keeps account balances consistent with their transactions.
type BalanceSvc interface {
	// AdjustBalance adds delta to the account's current balance.
	AdjustBalance(ctx context.Context, accountID int64, delta decimal.Decimal) error

	// ApplyEffects adjusts every account named in effects.
	ApplyEffects(ctx context.Context, effects []domain.BalanceEffect) error

	// RecalculateAccountBalances resets every account of the scope to its
	// initial balance and replays all transactions, oldest first.
	RecalculateAccountBalances(ctx context.Context, scope domain.Scope) (*domain.RecalculationResult, error)

	// VerifyBalances compares stored balances with recomputed ones without writing.
	VerifyBalances(ctx context.Context, scope domain.Scope) (*domain.BalanceVerification, error)
}
