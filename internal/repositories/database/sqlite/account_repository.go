package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledgerbook/internal/apperrors"
	"github.com/SscSPs/ledgerbook/internal/core/domain"
	portsrepo "github.com/SscSPs/ledgerbook/internal/core/ports/repositories"
	"github.com/SscSPs/ledgerbook/internal/models"
	"github.com/SscSPs/ledgerbook/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

// AccountRepository persists accounts of a scope.
type AccountRepository struct {
	BaseRepository
}

func newAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{BaseRepository{store: store}}
}

var _ portsrepo.AccountRepositoryFacade = (*AccountRepository)(nil)

const accountColumns = `account_id, bank_id, fiscal_year, name, account_type, currency,
	initial_balance, current_balance, color_code, icon, notes, is_default, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID, &m.BankID, &m.FiscalYear, &m.Name, &m.AccountType, &m.Currency,
		&m.InitialBalance, &m.CurrentBalance, &m.ColorCode, &m.Icon, &m.Notes, &m.IsDefault,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return domain.Account{}, err
	}
	return mapping.ToDomainAccount(m)
}

// SaveAccount inserts an account and returns its id.
func (r *AccountRepository) SaveAccount(ctx context.Context, account domain.Account) (int64, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}
	m := mapping.ToModelAccount(account)
	res, err := q.ExecContext(ctx, `
		INSERT INTO accounts (bank_id, fiscal_year, name, account_type, currency,
			initial_balance, current_balance, color_code, icon, notes, is_default, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.BankID, m.FiscalYear, m.Name, m.AccountType, m.Currency,
		m.InitialBalance, m.CurrentBalance, m.ColorCode, m.Icon, m.Notes, m.IsDefault,
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return 0, mapError(err, "failed to save account %q", m.Name)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, mapError(err, "failed to read new account id")
	}
	return id, nil
}

// FindAccountByID retrieves an account of the scope by its ID.
func (r *AccountRepository) FindAccountByID(ctx context.Context, scope domain.Scope, accountID int64) (*domain.Account, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	account, err := scanAccount(q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_id = ? AND bank_id = ? AND fiscal_year = ?`,
		accountID, scope.BankID, scope.Year,
	))
	if err != nil {
		return nil, mapError(err, "failed to find account %d in %s", accountID, scope)
	}
	return &account, nil
}

// FindDefaultAccount retrieves the default account of the scope.
func (r *AccountRepository) FindDefaultAccount(ctx context.Context, scope domain.Scope) (*domain.Account, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	account, err := scanAccount(q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE bank_id = ? AND fiscal_year = ? AND is_default = 1`,
		scope.BankID, scope.Year,
	))
	if err != nil {
		return nil, mapError(err, "failed to find default account of %s", scope)
	}
	return &account, nil
}

// ListAccounts returns the accounts of the scope, default first, then by name.
func (r *AccountRepository) ListAccounts(ctx context.Context, scope domain.Scope) ([]domain.Account, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx, `
		SELECT `+accountColumns+` FROM accounts
		WHERE bank_id = ? AND fiscal_year = ?
		ORDER BY is_default DESC, name COLLATE NOCASE, account_id`,
		scope.BankID, scope.Year,
	)
	if err != nil {
		return nil, mapError(err, "failed to list accounts of %s", scope)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, mapError(err, "failed to scan account")
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "failed to iterate accounts")
	}
	return accounts, nil
}

// CountAccountReferences counts transactions that use the account on either leg.
func (r *AccountRepository) CountAccountReferences(ctx context.Context, accountID int64) (int, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}
	var n int
	err = q.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM transactions WHERE account_id = ? OR to_account_id = ?`,
		accountID, accountID,
	).Scan(&n)
	if err != nil {
		return 0, mapError(err, "failed to count references of account %d", accountID)
	}
	return n, nil
}

// UpdateAccount updates the account's editable fields and balances.
func (r *AccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	q, err := r.conn(ctx)
	if err != nil {
		return err
	}
	m := mapping.ToModelAccount(account)
	res, err := q.ExecContext(ctx, `
		UPDATE accounts SET name = ?, account_type = ?, currency = ?, initial_balance = ?,
			current_balance = ?, color_code = ?, icon = ?, notes = ?, updated_at = ?
		WHERE account_id = ? AND bank_id = ? AND fiscal_year = ?`,
		m.Name, m.AccountType, m.Currency, m.InitialBalance,
		m.CurrentBalance, m.ColorCode, m.Icon, m.Notes, m.UpdatedAt,
		m.AccountID, m.BankID, m.FiscalYear,
	)
	if err != nil {
		return mapError(err, "failed to update account %d", account.AccountID)
	}
	return requireAffected(res, "account %d", account.AccountID)
}

// DeleteAccount removes an account of the scope.
func (r *AccountRepository) DeleteAccount(ctx context.Context, scope domain.Scope, accountID int64) error {
	q, err := r.conn(ctx)
	if err != nil {
		return err
	}
	res, err := q.ExecContext(ctx,
		`DELETE FROM accounts WHERE account_id = ? AND bank_id = ? AND fiscal_year = ?`,
		accountID, scope.BankID, scope.Year,
	)
	if err != nil {
		return mapError(err, "failed to delete account %d", accountID)
	}
	return requireAffected(res, "account %d", accountID)
}

// AdjustBalance adds delta to the account's current balance. Balances are
// stored as decimal text, so the sum is computed here rather than in SQL.
func (r *AccountRepository) AdjustBalance(ctx context.Context, accountID int64, delta decimal.Decimal, now time.Time) error {
	q, err := r.conn(ctx)
	if err != nil {
		return err
	}
	var stored string
	if err := q.QueryRowContext(ctx,
		`SELECT current_balance FROM accounts WHERE account_id = ?`, accountID,
	).Scan(&stored); err != nil {
		return mapError(err, "failed to read balance of account %d", accountID)
	}
	current, err := mapping.ParseAmount(stored)
	if err != nil {
		return fmt.Errorf("account %d: %w: %w", accountID, apperrors.ErrStorage, err)
	}

	res, err := q.ExecContext(ctx,
		`UPDATE accounts SET current_balance = ?, updated_at = ? WHERE account_id = ?`,
		current.Add(delta).String(), mapping.FormatTimestamp(now), accountID,
	)
	if err != nil {
		return mapError(err, "failed to adjust balance of account %d", accountID)
	}
	return requireAffected(res, "account %d", accountID)
}

// SetCurrentBalances overwrites the current balance of each account in balances.
func (r *AccountRepository) SetCurrentBalances(ctx context.Context, balances map[int64]decimal.Decimal, now time.Time) error {
	q, err := r.conn(ctx)
	if err != nil {
		return err
	}
	ts := mapping.FormatTimestamp(now)
	for accountID, balance := range balances {
		res, err := q.ExecContext(ctx,
			`UPDATE accounts SET current_balance = ?, updated_at = ? WHERE account_id = ?`,
			balance.String(), ts, accountID,
		)
		if err != nil {
			return mapError(err, "failed to set balance of account %d", accountID)
		}
		if err := requireAffected(res, "account %d", accountID); err != nil {
			return err
		}
	}
	return nil
}
