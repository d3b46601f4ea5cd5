package dto

import (
	"time"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
)

// SummaryParams defines query parameters for the ledger summary.
type SummaryParams struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// Range parses the optional bounds.
func (p SummaryParams) Range() (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if p.From != "" {
		t, err := time.Parse(domain.DateLayout, p.From)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if p.To != "" {
		t, err := time.Parse(domain.DateLayout, p.To)
		if err != nil {
			return nil, nil, err
		}
		to = &t
	}
	return from, to, nil
}
