package dto

import "github.com/SscSPs/ledgerbook/internal/core/domain"

// ListCurrencyResponse wraps the supported currencies.
type ListCurrencyResponse struct {
	DefaultCurrency string                `json:"defaultCurrency"`
	Currencies      []domain.CurrencyInfo `json:"currencies"`
}
