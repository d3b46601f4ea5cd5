package dto

import (
	"time"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name           string             `json:"name" binding:"required,max=100"`
	AccountType    domain.AccountType `json:"accountType" binding:"required,oneof=checking savings credit investment cash other"`
	Currency       string             `json:"currency" binding:"omitempty,len=3"` // Optional, defaults to the configured currency
	InitialBalance decimal.Decimal    `json:"initialBalance"`
	ColorCode      string             `json:"colorCode" binding:"max=20"`
	Icon           string             `json:"icon" binding:"max=50"`
	Notes          string             `json:"notes" binding:"max=1000"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name           *string             `json:"name" binding:"omitempty,max=100"`
	AccountType    *domain.AccountType `json:"accountType" binding:"omitempty,oneof=checking savings credit investment cash other"`
	Currency       *string             `json:"currency" binding:"omitempty,len=3"`
	InitialBalance *decimal.Decimal    `json:"initialBalance"`
	ColorCode      *string             `json:"colorCode" binding:"omitempty,max=20"`
	Icon           *string             `json:"icon" binding:"omitempty,max=50"`
	Notes          *string             `json:"notes" binding:"omitempty,max=1000"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID      int64              `json:"accountId"`
	BankID         int64              `json:"bankId"`
	Year           int                `json:"year"`
	Name           string             `json:"name"`
	AccountType    domain.AccountType `json:"accountType"`
	Currency       string             `json:"currency"`
	InitialBalance decimal.Decimal    `json:"initialBalance"`
	CurrentBalance decimal.Decimal    `json:"currentBalance"`
	ColorCode      string             `json:"colorCode"`
	Icon           string             `json:"icon"`
	Notes          string             `json:"notes"`
	IsDefault      bool               `json:"isDefault"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      acc.AccountID,
		BankID:         acc.BankID,
		Year:           acc.Year,
		Name:           acc.Name,
		AccountType:    acc.AccountType,
		Currency:       acc.Currency,
		InitialBalance: acc.InitialBalance,
		CurrentBalance: acc.CurrentBalance,
		ColorCode:      acc.ColorCode,
		Icon:           acc.Icon,
		Notes:          acc.Notes,
		IsDefault:      acc.IsDefault,
		CreatedAt:      acc.CreatedAt,
		UpdatedAt:      acc.UpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
