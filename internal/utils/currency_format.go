package utils

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/SscSPs/ledgerbook/internal/core/domain"
	"github.com/shopspring/decimal"
)

// supportedCurrencyCodes is the list offered to clients. Any ISO code known to
// go-money is still accepted.
var supportedCurrencyCodes = []string{
	money.USD, money.EUR, money.GBP, money.INR, money.JPY, money.CNY,
	money.AUD, money.CAD, money.CHF, money.SEK, money.NOK, money.DKK,
	money.PLN, money.CZK, money.HUF, money.SGD, money.HKD, money.NZD,
	money.ZAR, money.BRL, money.MXN, money.KRW, money.TRY, money.AED,
}

// LookupCurrency returns the go-money definition of code, or nil when unknown.
func LookupCurrency(code string) *money.Currency {
	return money.GetCurrency(strings.ToUpper(strings.TrimSpace(code)))
}

// CurrencyInfoFor describes a known currency code.
func CurrencyInfoFor(code string) (domain.CurrencyInfo, bool) {
	cur := LookupCurrency(code)
	if cur == nil {
		return domain.CurrencyInfo{}, false
	}
	return domain.CurrencyInfo{Code: cur.Code, Symbol: cur.Grapheme, Fraction: cur.Fraction}, true
}

// SupportedCurrencies lists the currencies offered to clients.
func SupportedCurrencies() []domain.CurrencyInfo {
	out := make([]domain.CurrencyInfo, 0, len(supportedCurrencyCodes))
	for _, code := range supportedCurrencyCodes {
		if info, ok := CurrencyInfoFor(code); ok {
			out = append(out, info)
		}
	}
	return out
}

// FormatAmount renders amount in the display format of the currency,
// e.g. "$1,234.50". Unknown codes fall back to a plain two-decimal string.
func FormatAmount(amount decimal.Decimal, code string) string {
	cur := LookupCurrency(code)
	if cur == nil {
		return amount.StringFixed(2)
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(minor)
}

// FormatWithPrecision formats an amount with the given precision
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.Round(int32(precision)).String()
}
