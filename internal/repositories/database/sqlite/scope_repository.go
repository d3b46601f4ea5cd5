package sqlite

import (
	"context"
	"time"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
	portsrepo "github.com/SscSPs/ledgerbook/internal/core/ports/repositories"
	"github.com/SscSPs/ledgerbook/internal/utils/mapping"
)

// ScopeRepository keeps the registry of (bank, year) scopes.
type ScopeRepository struct {
	BaseRepository
}

func newScopeRepository(store *Store) *ScopeRepository {
	return &ScopeRepository{BaseRepository{store: store}}
}

var _ portsrepo.ScopeRepository = (*ScopeRepository)(nil)

// RegisterScope inserts the scope row if missing.
func (r *ScopeRepository) RegisterScope(ctx context.Context, scope domain.Scope, now time.Time) (bool, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return false, err
	}
	res, err := q.ExecContext(ctx,
		`INSERT OR IGNORE INTO ledger_scopes (bank_id, fiscal_year, created_at) VALUES (?, ?, ?)`,
		scope.BankID, scope.Year, mapping.FormatTimestamp(now),
	)
	if err != nil {
		return false, mapError(err, "failed to register scope %s", scope)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, mapError(err, "failed to register scope %s", scope)
	}
	return n > 0, nil
}

// ScopeExists reports whether the scope is registered.
func (r *ScopeRepository) ScopeExists(ctx context.Context, scope domain.Scope) (bool, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return false, err
	}
	var n int
	err = q.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM ledger_scopes WHERE bank_id = ? AND fiscal_year = ?`,
		scope.BankID, scope.Year,
	).Scan(&n)
	if err != nil {
		return false, mapError(err, "failed to look up scope %s", scope)
	}
	return n > 0, nil
}

// ListYears returns the registered years of a bank, newest first.
func (r *ScopeRepository) ListYears(ctx context.Context, bankID int64) ([]int, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx,
		`SELECT fiscal_year FROM ledger_scopes WHERE bank_id = ? ORDER BY fiscal_year DESC`, bankID)
	if err != nil {
		return nil, mapError(err, "failed to list years of bank %d", bankID)
	}
	defer rows.Close()

	years := make([]int, 0)
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, mapError(err, "failed to scan year")
		}
		years = append(years, y)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "failed to iterate years")
	}
	return years, nil
}

// PurgeScope deletes all rows of the scope, children first.
func (r *ScopeRepository) PurgeScope(ctx context.Context, scope domain.Scope) error {
	q, err := r.conn(ctx)
	if err != nil {
		return err
	}
	for _, stmt := range []string{
		`DELETE FROM transactions WHERE bank_id = ? AND fiscal_year = ?`,
		`DELETE FROM categories WHERE bank_id = ? AND fiscal_year = ?`,
		`DELETE FROM accounts WHERE bank_id = ? AND fiscal_year = ?`,
		`DELETE FROM ledger_scopes WHERE bank_id = ? AND fiscal_year = ?`,
	} {
		if _, err := q.ExecContext(ctx, stmt, scope.BankID, scope.Year); err != nil {
			return mapError(err, "failed to purge scope %s", scope)
		}
	}
	return nil
}

// TableDefinitions reads the DDL of the application tables from sqlite_master.
func (r *ScopeRepository) TableDefinitions(ctx context.Context) ([]string, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx, `
		SELECT sql FROM sqlite_master
		WHERE type = 'table'
		  AND sql IS NOT NULL
		  AND name NOT LIKE 'sqlite_%'
		  AND name <> 'schema_migrations'
		ORDER BY name`)
	if err != nil {
		return nil, mapError(err, "failed to read table definitions")
	}
	defer rows.Close()

	defs := make([]string, 0)
	for rows.Next() {
		var ddl string
		if err := rows.Scan(&ddl); err != nil {
			return nil, mapError(err, "failed to scan table definition")
		}
		defs = append(defs, ddl)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "failed to iterate table definitions")
	}
	return defs, nil
}
