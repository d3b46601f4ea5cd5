package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryTotal aggregates the transactions of one category.
type CategoryTotal struct {
	CategoryID   int64           `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	CategoryType CategoryType    `json:"categoryType"`
	Total        decimal.Decimal `json:"total"`
	Count        int             `json:"count"`
	Display      string          `json:"display"`
}

// MonthlyTotal aggregates income and expense for one calendar month.
type MonthlyTotal struct {
	Month   string          `json:"month"` // YYYY-MM
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// AccountBalanceLine is one account's balance in a summary.
type AccountBalanceLine struct {
	AccountID int64           `json:"accountId"`
	Name      string          `json:"name"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	Display   string          `json:"display"`
}

// LedgerSummary is the typed report handed to exporters and charts.
type LedgerSummary struct {
	Scope            Scope                `json:"scope"`
	From             *time.Time           `json:"from,omitempty"`
	To               *time.Time           `json:"to,omitempty"`
	Currency         string               `json:"currency"`
	TotalIncome      decimal.Decimal      `json:"totalIncome"`
	TotalExpense     decimal.Decimal      `json:"totalExpense"`
	Net              decimal.Decimal      `json:"net"`
	TransferVolume   decimal.Decimal      `json:"transferVolume"`
	TransactionCount int                  `json:"transactionCount"`
	ByCategory       []CategoryTotal      `json:"byCategory"`
	ByMonth          []MonthlyTotal       `json:"byMonth"`
	Accounts         []AccountBalanceLine `json:"accounts"`
	Display          map[string]string    `json:"display"`
}

// CurrencyInfo describes a supported currency.
type CurrencyInfo struct {
	Code     string `json:"code"`
	Symbol   string `json:"symbol"`
	Fraction int    `json:"fraction"`
}
