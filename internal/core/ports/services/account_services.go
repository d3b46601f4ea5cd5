package services

import (
	"context"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
	"github.com/SscSPs/ledgerbook/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account of the scope.
	GetAccountByID(ctx context.Context, scope domain.Scope, accountID int64) (*domain.Account, error)

	// ListAccounts retrieves the accounts of a scope, default account first.
	ListAccounts(ctx context.Context, scope domain.Scope) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account. The scope is prepared on first use.
	CreateAccount(ctx context.Context, scope domain.Scope, req dto.CreateAccountRequest) (*domain.Account, error)

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, scope domain.Scope, accountID int64, req dto.UpdateAccountRequest) (*domain.Account, error)

	// DeleteAccount removes an unreferenced, non-default account.
	DeleteAccount(ctx context.Context, scope domain.Scope, accountID int64) error
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
