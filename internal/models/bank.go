package models

// Bank is the banks table row.
type Bank struct {
	BankID int64  `db:"bank_id"`
	Name   string `db:"name"`
	Icon   string `db:"icon"`
	AuditFields
}
