package models

// Account is the accounts table row. Balances are decimal strings.
type Account struct {
	AccountID      int64  `db:"account_id"`
	BankID         int64  `db:"bank_id"`
	FiscalYear     int    `db:"fiscal_year"`
	Name           string `db:"name"`
	AccountType    string `db:"account_type"`
	Currency       string `db:"currency"`
	InitialBalance string `db:"initial_balance"`
	CurrentBalance string `db:"current_balance"`
	ColorCode      string `db:"color_code"`
	Icon           string `db:"icon"`
	Notes          string `db:"notes"`
	IsDefault      bool   `db:"is_default"`
	AuditFields
}
