package mapping

import (
	"github.com/SscSPs/ledgerbook/internal/core/domain"
	"github.com/SscSPs/ledgerbook/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		BankID:         d.BankID,
		FiscalYear:     d.Year,
		Name:           d.Name,
		AccountType:    string(d.AccountType),
		Currency:       d.Currency,
		InitialBalance: d.InitialBalance.String(),
		CurrentBalance: d.CurrentBalance.String(),
		ColorCode:      d.ColorCode,
		Icon:           d.Icon,
		Notes:          d.Notes,
		IsDefault:      d.IsDefault,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) (domain.Account, error) {
	initial, err := ParseAmount(m.InitialBalance)
	if err != nil {
		return domain.Account{}, err
	}
	current, err := ParseAmount(m.CurrentBalance)
	if err != nil {
		return domain.Account{}, err
	}
	audit, err := ToDomainAuditFields(m.AuditFields)
	if err != nil {
		return domain.Account{}, err
	}
	return domain.Account{
		AccountID:      m.AccountID,
		BankID:         m.BankID,
		Year:           m.FiscalYear,
		Name:           m.Name,
		AccountType:    domain.AccountType(m.AccountType),
		Currency:       m.Currency,
		InitialBalance: initial,
		CurrentBalance: current,
		ColorCode:      m.ColorCode,
		Icon:           m.Icon,
		Notes:          m.Notes,
		IsDefault:      m.IsDefault,
		AuditFields:    audit,
	}, nil
}
