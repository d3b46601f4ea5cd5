package mapping

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
	"github.com/SscSPs/ledgerbook/internal/models"
	"github.com/shopspring/decimal"
)

// FormatTimestamp renders t in the fixed-width UTC layout used for storage,
// so stored timestamps sort lexically.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(models.TimestampLayout)
}

// ParseTimestamp parses a stored timestamp. Empty strings yield the zero time.
func ParseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(models.TimestampLayout, s)
	if err != nil {
		// rows written by older builds used RFC3339
		if t2, err2 := time.Parse(time.RFC3339Nano, s); err2 == nil {
			return t2.UTC(), nil
		}
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// FormatDate renders the calendar date of t.
func FormatDate(t time.Time) string {
	return t.UTC().Format(models.DateLayout)
}

// ParseDate parses a stored calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// ParseAmount parses a stored decimal. Empty strings are zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// ToModelAuditFields converts a domain AuditFields to a model AuditFields
func ToModelAuditFields(d domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt: FormatTimestamp(d.CreatedAt),
		UpdatedAt: FormatTimestamp(d.UpdatedAt),
	}
}

// ToDomainAuditFields converts a model AuditFields to a domain AuditFields
func ToDomainAuditFields(m models.AuditFields) (domain.AuditFields, error) {
	created, err := ParseTimestamp(m.CreatedAt)
	if err != nil {
		return domain.AuditFields{}, err
	}
	updated, err := ParseTimestamp(m.UpdatedAt)
	if err != nil {
		return domain.AuditFields{}, err
	}
	return domain.AuditFields{CreatedAt: created, UpdatedAt: updated}, nil
}
