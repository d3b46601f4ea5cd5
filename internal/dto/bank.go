package dto

import (
	"time"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
)

// CreateBankRequest defines the data needed to create a bank.
type CreateBankRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Icon string `json:"icon" binding:"max=50"`
}

// UpdateBankRequest defines the editable fields of a bank.
type UpdateBankRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=100"`
	Icon *string `json:"icon" binding:"omitempty,max=50"`
}

// BankResponse defines the data returned for a bank.
type BankResponse struct {
	BankID    int64     `json:"bankId"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToBankResponse converts a domain.Bank to BankResponse DTO
func ToBankResponse(b *domain.Bank) BankResponse {
	return BankResponse{
		BankID:    b.BankID,
		Name:      b.Name,
		Icon:      b.Icon,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// ListBanksResponse wraps the list of banks.
type ListBanksResponse struct {
	Banks []BankResponse `json:"banks"`
}

// ToListBanksResponse converts banks to their list response.
func ToListBanksResponse(banks []domain.Bank) ListBanksResponse {
	res := ListBanksResponse{Banks: make([]BankResponse, len(banks))}
	for i, b := range banks {
		res.Banks[i] = ToBankResponse(&b)
	}
	return res
}

// YearsResponse lists the fiscal years a bank has data for, newest first.
type YearsResponse struct {
	BankID int64 `json:"bankId"`
	Years  []int `json:"years"`
}

// SetupResponse reports the result of preparing or resetting a scope.
type SetupResponse struct {
	Scope domain.Scope      `json:"scope"`
	Seed  domain.SeedResult `json:"seed"`
}
