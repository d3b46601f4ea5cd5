package services

import (
	"context"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
	"github.com/SscSPs/ledgerbook/internal/dto"
)

// BankReaderSvc defines read operations for banks
type BankReaderSvc interface {
	GetBankByID(ctx context.Context, bankID int64) (*domain.Bank, error)
	ListBanks(ctx context.Context) ([]domain.Bank, error)

	// ListYears returns the fiscal years of the bank, newest first.
	ListYears(ctx context.Context, bankID int64) ([]int, error)
}

// BankWriterSvc defines write operations for banks
type BankWriterSvc interface {
	CreateBank(ctx context.Context, req dto.CreateBankRequest) (*domain.Bank, error)
	UpdateBank(ctx context.Context, bankID int64, req dto.UpdateBankRequest) (*domain.Bank, error)

	// DeleteBank removes the bank and every scope it owns.
	DeleteBank(ctx context.Context, bankID int64) error
}

// BankSvcFacade combines all bank-related service interfaces
type BankSvcFacade interface {
	BankReaderSvc
	BankWriterSvc
}
