package repositories

import (
	"context"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
)

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves one transaction of the scope, or apperrors.ErrNotFound.
	FindTransactionByID(ctx context.Context, scope domain.Scope, transactionID int64) (*domain.Transaction, error)

	// ListTransactions returns transactions newest first (date DESC, id DESC)
	// with joined account and category names, plus a token for the next page.
	ListTransactions(ctx context.Context, scope domain.Scope, filter domain.TransactionFilter) ([]domain.Transaction, *string, error)

	// ListTransactionsForReplay returns every transaction of the scope in
	// application order (date ASC, id ASC).
	ListTransactionsForReplay(ctx context.Context, scope domain.Scope) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	SaveTransaction(ctx context.Context, txn domain.Transaction) (int64, error)
	UpdateTransaction(ctx context.Context, txn domain.Transaction) error
	DeleteTransaction(ctx context.Context, scope domain.Scope, transactionID int64) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
