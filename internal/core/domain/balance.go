package domain

import "github.com/shopspring/decimal"

// RecalculationResult summarizes a full balance recomputation of a scope.
type RecalculationResult struct {
	Scope                 Scope   `json:"scope"`
	AccountsUpdated       int     `json:"accountsUpdated"`
	TransactionsApplied   int     `json:"transactionsApplied"`
	SkippedTransactions   int     `json:"skippedTransactions"`
	SkippedTransactionIDs []int64 `json:"skippedTransactionIds"`
}

// AccountBalanceCheck compares the stored balance of an account with the
// value derived from its transactions.
type AccountBalanceCheck struct {
	AccountID  int64           `json:"accountId"`
	Name       string          `json:"name"`
	Stored     decimal.Decimal `json:"stored"`
	Expected   decimal.Decimal `json:"expected"`
	Difference decimal.Decimal `json:"difference"`
	Drifted    bool            `json:"drifted"`
}

// BalanceVerification is the read-only drift report of a scope.
type BalanceVerification struct {
	Scope      Scope                 `json:"scope"`
	Accounts   []AccountBalanceCheck `json:"accounts"`
	DriftCount int                   `json:"driftCount"`
}

// ReplayBalances derives current balances from initial balances and the
// transactions, applied in the given order. Transactions touching an account
// that is not in accounts are skipped and reported.
func ReplayBalances(accounts []Account, transactions []Transaction) (map[int64]decimal.Decimal, int, []int64) {
	balances := make(map[int64]decimal.Decimal, len(accounts))
	for _, acc := range accounts {
		balances[acc.AccountID] = acc.InitialBalance
	}

	applied := 0
	skipped := make([]int64, 0)
	for _, txn := range transactions {
		effects := txn.Effects()
		orphan := len(effects) == 0
		for _, e := range effects {
			if _, ok := balances[e.AccountID]; !ok {
				orphan = true
				break
			}
		}
		if orphan {
			skipped = append(skipped, txn.TransactionID)
			continue
		}
		for _, e := range effects {
			balances[e.AccountID] = balances[e.AccountID].Add(e.Delta)
		}
		applied++
	}
	return balances, applied, skipped
}
