package services

import (
	"context"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
)

// SchemaSvc prepares and rebuilds ledger scopes. Every failure wraps
// apperrors.ErrSchema, except a missing bank which is apperrors.ErrNotFound.
type SchemaSvc interface {
	// EnsureTables verifies the bank and registers the scope. It never destroys data.
	EnsureTables(ctx context.Context, scope domain.Scope) error

	// SeedDefaults inserts missing default categories and the default account.
	SeedDefaults(ctx context.Context, scope domain.Scope) (*domain.SeedResult, error)

	// Recreate drops every row of the scope and registers it again.
	Recreate(ctx context.Context, scope domain.Scope) error

	// Prepare ensures the scope and seeds it when it was registered just now.
	// Services call it before the first write into a scope.
	Prepare(ctx context.Context, scope domain.Scope) error

	// Setup runs EnsureTables and SeedDefaults.
	Setup(ctx context.Context, scope domain.Scope) (*domain.SeedResult, error)

	// Reset runs Recreate and SeedDefaults.
	Reset(ctx context.Context, scope domain.Scope) (*domain.SeedResult, error)

	// DefaultSeed returns the configured seed rows.
	DefaultSeed() domain.DefaultSeed
}
