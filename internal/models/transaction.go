package models

import "database/sql"

// Transaction is the transactions table row. Tags and attachments are JSON arrays.
type Transaction struct {
	TransactionID   int64         `db:"transaction_id"`
	BankID          int64         `db:"bank_id"`
	FiscalYear      int           `db:"fiscal_year"`
	TransactionType string        `db:"txn_type"`
	Amount          string        `db:"amount"`
	TxnDate         string        `db:"txn_date"`
	AccountID       int64         `db:"account_id"`
	ToAccountID     sql.NullInt64 `db:"to_account_id"`
	CategoryID      sql.NullInt64 `db:"category_id"`
	Description     string        `db:"description"`
	PaymentMethod   string        `db:"payment_method"`
	Location        string        `db:"location"`
	Notes           string        `db:"notes"`
	Tags            string        `db:"tags"`
	Attachments     string        `db:"attachments"`
	AuditFields

	// Joined columns, only filled by list queries.
	AccountName   sql.NullString `db:"account_name"`
	ToAccountName sql.NullString `db:"to_account_name"`
	CategoryName  sql.NullString `db:"category_name"`
}
