package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of money movement a transaction records.
type TransactionType string

const (
	TransactionExpense  TransactionType = "expense"
	TransactionIncome   TransactionType = "income"
	TransactionTransfer TransactionType = "transfer"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionExpense, TransactionIncome, TransactionTransfer:
		return true
	}
	return false
}

// CategoryType returns the category type a transaction of this type must use.
// Transfers carry no category.
func (t TransactionType) CategoryType() (CategoryType, bool) {
	switch t {
	case TransactionExpense:
		return CategoryExpense, true
	case TransactionIncome:
		return CategoryIncome, true
	}
	return "", false
}

// Transaction records one expense, income or transfer.
// Amount is stored as a positive magnitude; the direction comes from
// TransactionType, see Effects.
type Transaction struct {
	TransactionID   int64           `json:"transactionId"`
	BankID          int64           `json:"bankId"`
	Year            int             `json:"year"`
	TransactionType TransactionType `json:"transactionType"`
	Amount          decimal.Decimal `json:"amount"`
	Date            time.Time       `json:"date"`
	AccountID       int64           `json:"accountId"`
	ToAccountID     *int64          `json:"toAccountId,omitempty"`
	CategoryID      *int64          `json:"categoryId,omitempty"`
	Description     string          `json:"description"`
	PaymentMethod   string          `json:"paymentMethod"`
	Location        string          `json:"location"`
	Notes           string          `json:"notes"`
	Tags            []string        `json:"tags"`
	Attachments     []string        `json:"attachments"`
	AuditFields

	// Populated by list queries only.
	AccountName   string `json:"accountName,omitempty"`
	ToAccountName string `json:"toAccountName,omitempty"`
	CategoryName  string `json:"categoryName,omitempty"`
}

// Scope returns the scope the transaction belongs to.
func (t Transaction) Scope() Scope {
	return Scope{BankID: t.BankID, Year: t.Year}
}

// BalanceEffect is a signed change to one account's balance.
type BalanceEffect struct {
	AccountID int64
	Delta     decimal.Decimal
}

// Effects returns the balance changes the transaction causes.
// Both the incremental path and full recomputation go through here.
func (t Transaction) Effects() []BalanceEffect {
	amount := t.Amount.Abs()
	switch t.TransactionType {
	case TransactionExpense:
		return []BalanceEffect{{AccountID: t.AccountID, Delta: amount.Neg()}}
	case TransactionIncome:
		return []BalanceEffect{{AccountID: t.AccountID, Delta: amount}}
	case TransactionTransfer:
		if t.ToAccountID == nil {
			return nil
		}
		return []BalanceEffect{
			{AccountID: t.AccountID, Delta: amount.Neg()},
			{AccountID: *t.ToAccountID, Delta: amount},
		}
	}
	return nil
}

// ReverseEffects returns Effects with every delta negated.
func (t Transaction) ReverseEffects() []BalanceEffect {
	effects := t.Effects()
	for i := range effects {
		effects[i].Delta = effects[i].Delta.Neg()
	}
	return effects
}

// AccountIDs lists every account the transaction touches.
func (t Transaction) AccountIDs() []int64 {
	ids := []int64{t.AccountID}
	if t.ToAccountID != nil {
		ids = append(ids, *t.ToAccountID)
	}
	return ids
}

var (
	errAmountNotPositive = errors.New("amount must be greater than zero")
	errSelfTransfer      = errors.New("transfer source and destination must differ")
)

// Validate checks the shape of the transaction without touching storage.
func (t Transaction) Validate() error {
	if !t.TransactionType.IsValid() {
		return fmt.Errorf("unknown transaction type %q", t.TransactionType)
	}
	if !t.Amount.IsPositive() {
		return errAmountNotPositive
	}
	if t.Date.IsZero() {
		return errors.New("date is required")
	}
	if t.AccountID <= 0 {
		return errors.New("accountId is required")
	}

	if t.TransactionType == TransactionTransfer {
		if t.ToAccountID == nil || *t.ToAccountID <= 0 {
			return errors.New("toAccountId is required for transfers")
		}
		if *t.ToAccountID == t.AccountID {
			return errSelfTransfer
		}
		if t.CategoryID != nil {
			return errors.New("transfers cannot carry a category")
		}
		return nil
	}

	if t.ToAccountID != nil {
		return fmt.Errorf("toAccountId is only allowed on transfers, not %s", t.TransactionType)
	}
	if t.CategoryID == nil || *t.CategoryID <= 0 {
		return fmt.Errorf("categoryId is required for %s transactions", t.TransactionType)
	}
	return nil
}

// TransactionFilter narrows a transaction listing.
type TransactionFilter struct {
	From       *time.Time
	To         *time.Time
	AccountID  *int64 // matches either leg
	CategoryID *int64
	Type       *TransactionType
	Search     string
	Limit      int // zero means no limit
	NextToken  *string
}
