package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
)

// BankReader defines read operations for banks
type BankReader interface {
	// FindBankByID retrieves a bank, or apperrors.ErrNotFound.
	FindBankByID(ctx context.Context, bankID int64) (*domain.Bank, error)

	// ListBanks returns every bank ordered by id.
	ListBanks(ctx context.Context) ([]domain.Bank, error)
}

// BankWriter defines write operations for banks
type BankWriter interface {
	// SaveBank inserts a bank and returns its id. A non-zero BankID is kept as is.
	SaveBank(ctx context.Context, bank domain.Bank) (int64, error)

	// UpdateBank updates name and icon.
	UpdateBank(ctx context.Context, bank domain.Bank) error

	// DeleteBank removes the bank together with every scope it owns.
	DeleteBank(ctx context.Context, bankID int64) error
}

// BankRepositoryFacade combines all bank-related repository interfaces
type BankRepositoryFacade interface {
	BankReader
	BankWriter
}

// ScopeRepository manages the registry of (bank, year) ledger scopes.
type ScopeRepository interface {
	// RegisterScope records the scope if absent and reports whether it was new.
	RegisterScope(ctx context.Context, scope domain.Scope, now time.Time) (bool, error)

	// ScopeExists reports whether the scope has been registered.
	ScopeExists(ctx context.Context, scope domain.Scope) (bool, error)

	// ListYears returns the registered years of a bank, newest first.
	ListYears(ctx context.Context, bankID int64) ([]int, error)

	// PurgeScope deletes every transaction, category and account of the scope
	// and unregisters it.
	PurgeScope(ctx context.Context, scope domain.Scope) error

	// TableDefinitions returns the DDL of the ledger tables.
	TableDefinitions(ctx context.Context) ([]string, error)
}
