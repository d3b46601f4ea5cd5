package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
	portssvc "github.com/SscSPs/ledgerbook/internal/core/ports/services"
	"github.com/SscSPs/ledgerbook/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, scope domain.Scope, accountID int64) (*domain.Account, error) {
	args := m.Called(ctx, scope, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, scope domain.Scope) ([]domain.Account, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, scope domain.Scope, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, scope, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, scope domain.Scope, accountID int64, req dto.UpdateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, scope, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, scope domain.Scope, accountID int64) error {
	args := m.Called(ctx, scope, accountID)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) GetTransactionByID(ctx context.Context, scope domain.Scope, transactionID int64) (*domain.Transaction, error) {
	args := m.Called(ctx, scope, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) ListTransactions(ctx context.Context, scope domain.Scope, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, scope, filter)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), next, args.Error(2)
}

func (m *MockTransactionService) CreateTransaction(ctx context.Context, scope domain.Scope, req dto.TransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, scope, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) UpdateTransaction(ctx context.Context, scope domain.Scope, transactionID int64, req dto.TransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, scope, transactionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) DeleteTransaction(ctx context.Context, scope domain.Scope, transactionID int64) error {
	args := m.Called(ctx, scope, transactionID)
	return args.Error(0)
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Mock AuthService ---
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) PINRequired(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthService) Unlock(ctx context.Context, pin string) (string, time.Time, error) {
	args := m.Called(ctx, pin)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockAuthService) SetPIN(ctx context.Context, currentPIN, newPIN string) error {
	args := m.Called(ctx, currentPIN, newPIN)
	return args.Error(0)
}

func (m *MockAuthService) ClearPIN(ctx context.Context, currentPIN string) error {
	args := m.Called(ctx, currentPIN)
	return args.Error(0)
}

var _ portssvc.AuthSvc = (*MockAuthService)(nil)

// --- Mock BackupService ---
type MockBackupService struct {
	mock.Mock
}

func (m *MockBackupService) CreateBackup(ctx context.Context, scope domain.Scope, opts domain.BackupOptions) (*domain.BackupFile, error) {
	args := m.Called(ctx, scope, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BackupFile), args.Error(1)
}

func (m *MockBackupService) RestoreBackup(ctx context.Context, data []byte, opts domain.RestoreOptions) (*domain.RestoreResult, error) {
	args := m.Called(ctx, data, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RestoreResult), args.Error(1)
}

func (m *MockBackupService) StageRestore(ctx context.Context, data []byte, opts domain.RestoreOptions) (*domain.PendingRestore, error) {
	args := m.Called(ctx, data, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingRestore), args.Error(1)
}

func (m *MockBackupService) ApplyPendingRestore(ctx context.Context) (*domain.RestoreResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RestoreResult), args.Error(1)
}

func (m *MockBackupService) HasPendingRestore(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

var _ portssvc.BackupSvc = (*MockBackupService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) GetSummary(ctx context.Context, scope domain.Scope, from, to *time.Time) (*domain.LedgerSummary, error) {
	args := m.Called(ctx, scope, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerSummary), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

// --- Mock CurrencyService ---
type MockCurrencyService struct {
	mock.Mock
}

func (m *MockCurrencyService) ListCurrencies() []domain.CurrencyInfo {
	args := m.Called()
	return args.Get(0).([]domain.CurrencyInfo)
}

func (m *MockCurrencyService) DefaultCurrency() string {
	return m.Called().String(0)
}

func (m *MockCurrencyService) ValidateCurrency(code string) (string, error) {
	args := m.Called(code)
	return args.String(0), args.Error(1)
}

func (m *MockCurrencyService) Format(amount decimal.Decimal, code string) string {
	return m.Called(amount, code).String(0)
}

var _ portssvc.CurrencySvc = (*MockCurrencyService)(nil)
