package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
	"github.com/SscSPs/ledgerbook/internal/models"
)

func encodeStringList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeStringList(s string) ([]string, error) {
	values := []string{}
	if s == "" {
		return values, nil
	}
	if err := json.Unmarshal([]byte(s), &values); err != nil {
		return nil, fmt.Errorf("invalid list %q: %w", s, err)
	}
	return values, nil
}

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) (models.Transaction, error) {
	tags, err := encodeStringList(d.Tags)
	if err != nil {
		return models.Transaction{}, err
	}
	attachments, err := encodeStringList(d.Attachments)
	if err != nil {
		return models.Transaction{}, err
	}
	return models.Transaction{
		TransactionID:   d.TransactionID,
		BankID:          d.BankID,
		FiscalYear:      d.Year,
		TransactionType: string(d.TransactionType),
		Amount:          d.Amount.String(),
		TxnDate:         FormatDate(d.Date),
		AccountID:       d.AccountID,
		ToAccountID:     ToNullInt64(d.ToAccountID),
		CategoryID:      ToNullInt64(d.CategoryID),
		Description:     d.Description,
		PaymentMethod:   d.PaymentMethod,
		Location:        d.Location,
		Notes:           d.Notes,
		Tags:            tags,
		Attachments:     attachments,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) (domain.Transaction, error) {
	amount, err := ParseAmount(m.Amount)
	if err != nil {
		return domain.Transaction{}, err
	}
	date, err := ParseDate(m.TxnDate)
	if err != nil {
		return domain.Transaction{}, err
	}
	tags, err := decodeStringList(m.Tags)
	if err != nil {
		return domain.Transaction{}, err
	}
	attachments, err := decodeStringList(m.Attachments)
	if err != nil {
		return domain.Transaction{}, err
	}
	audit, err := ToDomainAuditFields(m.AuditFields)
	if err != nil {
		return domain.Transaction{}, err
	}
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		BankID:          m.BankID,
		Year:            m.FiscalYear,
		TransactionType: domain.TransactionType(m.TransactionType),
		Amount:          amount,
		Date:            date,
		AccountID:       m.AccountID,
		ToAccountID:     FromNullInt64(m.ToAccountID),
		CategoryID:      FromNullInt64(m.CategoryID),
		Description:     m.Description,
		PaymentMethod:   m.PaymentMethod,
		Location:        m.Location,
		Notes:           m.Notes,
		Tags:            tags,
		Attachments:     attachments,
		AuditFields:     audit,
		AccountName:     m.AccountName.String,
		ToAccountName:   m.ToAccountName.String,
		CategoryName:    m.CategoryName.String,
	}, nil
}
