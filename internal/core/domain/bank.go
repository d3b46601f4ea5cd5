package domain

import (
	"fmt"
	"time"
)

// Bank is a tenant of the ledger. Each bank owns one scope per fiscal year.
type Bank struct {
	BankID    int64     `json:"bankId"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Scope identifies the ledger of one bank for one fiscal year.
// Accounts, categories and transactions all live inside exactly one scope.
type Scope struct {
	BankID int64 `json:"bankId"`
	Year   int   `json:"year"`
}

const (
	minScopeYear = 1900
	maxScopeYear = 9999
)

// Validate checks that the scope refers to a plausible bank and year.
func (s Scope) Validate() error {
	if s.BankID <= 0 {
		return fmt.Errorf("bank id must be positive, got %d", s.BankID)
	}
	if s.Year < minScopeYear || s.Year > maxScopeYear {
		return fmt.Errorf("year must be between %d and %d, got %d", minScopeYear, maxScopeYear, s.Year)
	}
	return nil
}

func (s Scope) String() string {
	return fmt.Sprintf("bank %d / %d", s.BankID, s.Year)
}
