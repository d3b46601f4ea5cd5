package services

import (
	"github.com/SscSPs/ledgerbook/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CurrencySvc exposes the supported ISO 4217 currencies.
type CurrencySvc interface {
	// ListCurrencies returns the supported currencies.
	ListCurrencies() []domain.CurrencyInfo

	// DefaultCurrency returns the configured fallback currency code.
	DefaultCurrency() string

	// ValidateCurrency normalizes code, or fails with apperrors.ErrValidation.
	ValidateCurrency(code string) (string, error)

	// Format renders amount with the currency's symbol and grouping.
	Format(amount decimal.Decimal, code string) string
}
