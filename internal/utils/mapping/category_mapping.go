package mapping

import (
	"database/sql"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
	"github.com/SscSPs/ledgerbook/internal/models"
)

// ToNullInt64 converts an optional id to its nullable column form.
func ToNullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

// FromNullInt64 converts a nullable id column to an optional id.
func FromNullInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

// ToModelCategory converts a domain Category to a model Category
func ToModelCategory(d domain.Category) models.Category {
	return models.Category{
		CategoryID:       d.CategoryID,
		BankID:           d.BankID,
		FiscalYear:       d.Year,
		Name:             d.Name,
		CategoryType:     string(d.CategoryType),
		ParentCategoryID: ToNullInt64(d.ParentCategoryID),
		ColorCode:        d.ColorCode,
		Icon:             d.Icon,
		IsDefault:        d.IsDefault,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCategory converts a model Category to a domain Category
func ToDomainCategory(m models.Category) (domain.Category, error) {
	audit, err := ToDomainAuditFields(m.AuditFields)
	if err != nil {
		return domain.Category{}, err
	}
	return domain.Category{
		CategoryID:       m.CategoryID,
		BankID:           m.BankID,
		Year:             m.FiscalYear,
		Name:             m.Name,
		CategoryType:     domain.CategoryType(m.CategoryType),
		ParentCategoryID: FromNullInt64(m.ParentCategoryID),
		ColorCode:        m.ColorCode,
		Icon:             m.Icon,
		IsDefault:        m.IsDefault,
		AuditFields:      audit,
	}, nil
}
