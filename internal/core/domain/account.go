package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AccountType classifies where money is held.
type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCredit     AccountType = "credit"
	AccountInvestment AccountType = "investment"
	AccountCash       AccountType = "cash"
	AccountOther      AccountType = "other"
)

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case AccountChecking, AccountSavings, AccountCredit, AccountInvestment, AccountCash, AccountOther:
		return true
	}
	return false
}

// Account is a money container inside a scope.
// CurrentBalance always equals InitialBalance plus the effects of every
// transaction in the scope that touches the account.
type Account struct {
	AccountID      int64           `json:"accountId"`
	BankID         int64           `json:"bankId"`
	Year           int             `json:"year"`
	Name           string          `json:"name"`
	AccountType    AccountType     `json:"accountType"`
	Currency       string          `json:"currency"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	ColorCode      string          `json:"colorCode"`
	Icon           string          `json:"icon"`
	Notes          string          `json:"notes"`
	IsDefault      bool            `json:"isDefault"` // seeded cash account, one per scope
	AuditFields
}

// Scope returns the scope the account belongs to.
func (a Account) Scope() Scope {
	return Scope{BankID: a.BankID, Year: a.Year}
}

// NormalizeName folds a display name for duplicate detection.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
