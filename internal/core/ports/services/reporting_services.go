package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
)

// ReportingService defines operations for generating ledger reports
type ReportingService interface {
	// GetSummary aggregates the scope's transactions between from and to,
	// both optional and inclusive.
	GetSummary(ctx context.Context, scope domain.Scope, from, to *time.Time) (*domain.LedgerSummary, error)
}
