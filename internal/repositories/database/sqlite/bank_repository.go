package sqlite

import (
	"context"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
	portsrepo "github.com/SscSPs/ledgerbook/internal/core/ports/repositories"
	"github.com/SscSPs/ledgerbook/internal/models"
	"github.com/SscSPs/ledgerbook/internal/utils/mapping"
)

// BankRepository persists banks.
type BankRepository struct {
	BaseRepository
}

func newBankRepository(store *Store) *BankRepository {
	return &BankRepository{BaseRepository{store: store}}
}

var _ portsrepo.BankRepositoryFacade = (*BankRepository)(nil)

const bankColumns = `bank_id, name, icon, created_at, updated_at`

func scanBank(row interface{ Scan(...any) error }) (domain.Bank, error) {
	var m models.Bank
	if err := row.Scan(&m.BankID, &m.Name, &m.Icon, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return domain.Bank{}, err
	}
	return mapping.ToDomainBank(m)
}

// SaveBank inserts a bank. A non-zero BankID is used as the row id.
func (r *BankRepository) SaveBank(ctx context.Context, bank domain.Bank) (int64, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}
	m := mapping.ToModelBank(bank)

	var id any
	if m.BankID > 0 {
		id = m.BankID
	}
	res, err := q.ExecContext(ctx,
		`INSERT INTO banks (bank_id, name, icon, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, m.Name, m.Icon, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return 0, mapError(err, "failed to save bank %q", m.Name)
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return 0, mapError(err, "failed to read new bank id")
	}
	return newID, nil
}

// FindBankByID retrieves a bank by its ID.
func (r *BankRepository) FindBankByID(ctx context.Context, bankID int64) (*domain.Bank, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	bank, err := scanBank(q.QueryRowContext(ctx, `SELECT `+bankColumns+` FROM banks WHERE bank_id = ?`, bankID))
	if err != nil {
		return nil, mapError(err, "failed to find bank %d", bankID)
	}
	return &bank, nil
}

// ListBanks returns all banks ordered by id.
func (r *BankRepository) ListBanks(ctx context.Context) ([]domain.Bank, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx, `SELECT `+bankColumns+` FROM banks ORDER BY bank_id`)
	if err != nil {
		return nil, mapError(err, "failed to list banks")
	}
	defer rows.Close()

	banks := make([]domain.Bank, 0)
	for rows.Next() {
		bank, err := scanBank(rows)
		if err != nil {
			return nil, mapError(err, "failed to scan bank")
		}
		banks = append(banks, bank)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "failed to iterate banks")
	}
	return banks, nil
}

// UpdateBank updates the name and icon of a bank.
func (r *BankRepository) UpdateBank(ctx context.Context, bank domain.Bank) error {
	q, err := r.conn(ctx)
	if err != nil {
		return err
	}
	m := mapping.ToModelBank(bank)
	res, err := q.ExecContext(ctx,
		`UPDATE banks SET name = ?, icon = ?, updated_at = ? WHERE bank_id = ?`,
		m.Name, m.Icon, m.UpdatedAt, m.BankID,
	)
	if err != nil {
		return mapError(err, "failed to update bank %d", bank.BankID)
	}
	return requireAffected(res, "bank %d", bank.BankID)
}

// DeleteBank removes a bank and every row of every scope it owns.
// Callers run it inside a transaction.
func (r *BankRepository) DeleteBank(ctx context.Context, bankID int64) error {
	q, err := r.conn(ctx)
	if err != nil {
		return err
	}
	for _, stmt := range []string{
		`DELETE FROM transactions WHERE bank_id = ?`,
		`DELETE FROM categories WHERE bank_id = ?`,
		`DELETE FROM accounts WHERE bank_id = ?`,
		`DELETE FROM ledger_scopes WHERE bank_id = ?`,
	} {
		if _, err := q.ExecContext(ctx, stmt, bankID); err != nil {
			return mapError(err, "failed to delete data of bank %d", bankID)
		}
	}
	res, err := q.ExecContext(ctx, `DELETE FROM banks WHERE bank_id = ?`, bankID)
	if err != nil {
		return mapError(err, "failed to delete bank %d", bankID)
	}
	return requireAffected(res, "bank %d", bankID)
}
