package services

import (
	"fmt"
	"strings"

	"github.com/SscSPs/ledgerbook/internal/apperrors"
	"github.com/SscSPs/ledgerbook/internal/core/domain"
	portssvc "github.com/SscSPs/ledgerbook/internal/core/ports/services"
	"github.com/SscSPs/ledgerbook/internal/utils"
	"github.com/shopspring/decimal"
)

type currencyService struct {
	defaultCurrency string
}

// NewCurrencyService creates a currency service falling back to defaultCurrency.
func NewCurrencyService(defaultCurrency string) portssvc.CurrencySvc {
	code := strings.ToUpper(strings.TrimSpace(defaultCurrency))
	if utils.LookupCurrency(code) == nil {
		code = "USD"
	}
	return &currencyService{defaultCurrency: code}
}

var _ portssvc.CurrencySvc = (*currencyService)(nil)

func (s *currencyService) ListCurrencies() []domain.CurrencyInfo {
	return utils.SupportedCurrencies()
}

func (s *currencyService) DefaultCurrency() string {
	return s.defaultCurrency
}

func (s *currencyService) ValidateCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return s.defaultCurrency, nil
	}
	if utils.LookupCurrency(code) == nil {
		return "", fmt.Errorf("%w: unknown currency code %q", apperrors.ErrValidation, code)
	}
	return code, nil
}

func (s *currencyService) Format(amount decimal.Decimal, code string) string {
	if code == "" {
		code = s.defaultCurrency
	}
	return utils.FormatAmount(amount, code)
}
