package mapping

import (
	"github.com/SscSPs/ledgerbook/internal/core/domain"
	"github.com/SscSPs/ledgerbook/internal/models"
)

// ToModelBank converts a domain Bank to a model Bank
func ToModelBank(d domain.Bank) models.Bank {
	return models.Bank{
		BankID:      d.BankID,
		Name:        d.Name,
		Icon:        d.Icon,
		AuditFields: ToModelAuditFields(domain.AuditFields{CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}),
	}
}

// ToDomainBank converts a model Bank to a domain Bank
func ToDomainBank(m models.Bank) (domain.Bank, error) {
	audit, err := ToDomainAuditFields(m.AuditFields)
	if err != nil {
		return domain.Bank{}, err
	}
	return domain.Bank{
		BankID:    m.BankID,
		Name:      m.Name,
		Icon:      m.Icon,
		CreatedAt: audit.CreatedAt,
		UpdatedAt: audit.UpdatedAt,
	}, nil
}
