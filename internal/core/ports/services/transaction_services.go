package services

import (
	"context"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
	"github.com/SscSPs/ledgerbook/internal/dto"
)

// TransactionReaderSvc defines read operations for transaction data
type TransactionReaderSvc interface {
	GetTransactionByID(ctx context.Context, scope domain.Scope, transactionID int64) (*domain.Transaction, error)

	// ListTransactions returns one page of transactions and the token of the next page.
	ListTransactions(ctx context.Context, scope domain.Scope, filter domain.TransactionFilter) ([]domain.Transaction, *string, error)
}

// TransactionWriterSvc defines write operations for transaction data. Each
// call writes the row and its balance effects in one database transaction.
type TransactionWriterSvc interface {
	CreateTransaction(ctx context.Context, scope domain.Scope, req dto.TransactionRequest) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, scope domain.Scope, transactionID int64, req dto.TransactionRequest) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, scope domain.Scope, transactionID int64) error
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
