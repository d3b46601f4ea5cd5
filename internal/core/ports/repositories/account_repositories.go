package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves an account of the scope, or apperrors.ErrNotFound.
	FindAccountByID(ctx context.Context, scope domain.Scope, accountID int64) (*domain.Account, error)

	// FindDefaultAccount retrieves the scope's default account, or apperrors.ErrNotFound.
	FindDefaultAccount(ctx context.Context, scope domain.Scope) (*domain.Account, error)

	// ListAccounts returns the accounts of a scope, default account first.
	ListAccounts(ctx context.Context, scope domain.Scope) ([]domain.Account, error)

	// CountAccountReferences counts transactions using the account on either leg.
	CountAccountReferences(ctx context.Context, accountID int64) (int, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account and returns its id.
	SaveAccount(ctx context.Context, account domain.Account) (int64, error)

	// UpdateAccount updates an existing account's details and balances.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an account from the scope.
	DeleteAccount(ctx context.Context, scope domain.Scope, accountID int64) error
}

// AccountBalanceSupport defines the balance mutations used by the balance engine
type AccountBalanceSupport interface {
	// AdjustBalance adds delta to the account's current balance.
	AdjustBalance(ctx context.Context, accountID int64, delta decimal.Decimal, now time.Time) error

	// SetCurrentBalances overwrites current balances in bulk.
	SetCurrentBalances(ctx context.Context, balances map[int64]decimal.Decimal, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountBalanceSupport
}
