package models

import "database/sql"

// Category is the categories table row.
type Category struct {
	CategoryID       int64         `db:"category_id"`
	BankID           int64         `db:"bank_id"`
	FiscalYear       int           `db:"fiscal_year"`
	Name             string        `db:"name"`
	CategoryType     string        `db:"category_type"`
	ParentCategoryID sql.NullInt64 `db:"parent_category_id"`
	ColorCode        string        `db:"color_code"`
	Icon             string        `db:"icon"`
	IsDefault        bool          `db:"is_default"`
	AuditFields
}
