package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/ledgerbook/internal/apperrors"
	"github.com/SscSPs/ledgerbook/internal/core/domain"
	portsrepo "github.com/SscSPs/ledgerbook/internal/core/ports/repositories"
	"github.com/SscSPs/ledgerbook/internal/models"
	"github.com/SscSPs/ledgerbook/internal/utils/mapping"
	"github.com/SscSPs/ledgerbook/internal/utils/pagination"
)

// TransactionRepository persists transactions of a scope.
type TransactionRepository struct {
	BaseRepository
}

func newTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{BaseRepository{store: store}}
}

var _ portsrepo.TransactionRepositoryFacade = (*TransactionRepository)(nil)

const transactionSelect = `
	SELECT t.transaction_id, t.bank_id, t.fiscal_year, t.txn_type, t.amount, t.txn_date,
		t.account_id, t.to_account_id, t.category_id, t.description, t.payment_method,
		t.location, t.notes, t.tags, t.attachments, t.created_at, t.updated_at,
		a.name, ta.name, c.name
	FROM transactions t
	LEFT JOIN accounts a ON a.account_id = t.account_id
	LEFT JOIN accounts ta ON ta.account_id = t.to_account_id
	LEFT JOIN categories c ON c.category_id = t.category_id`

func scanTransaction(row interface{ Scan(...any) error }) (domain.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID, &m.BankID, &m.FiscalYear, &m.TransactionType, &m.Amount, &m.TxnDate,
		&m.AccountID, &m.ToAccountID, &m.CategoryID, &m.Description, &m.PaymentMethod,
		&m.Location, &m.Notes, &m.Tags, &m.Attachments, &m.CreatedAt, &m.UpdatedAt,
		&m.AccountName, &m.ToAccountName, &m.CategoryName,
	)
	if err != nil {
		return domain.Transaction{}, err
	}
	return mapping.ToDomainTransaction(m)
}

func (r *TransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "failed to query transactions")
	}
	defer rows.Close()

	txns := make([]domain.Transaction, 0)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, mapError(err, "failed to scan transaction")
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "failed to iterate transactions")
	}
	return txns, nil
}

// SaveTransaction inserts a transaction and returns its id.
func (r *TransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) (int64, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}
	m, err := mapping.ToModelTransaction(txn)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	res, err := q.ExecContext(ctx, `
		INSERT INTO transactions (bank_id, fiscal_year, txn_type, amount, txn_date, account_id,
			to_account_id, category_id, description, payment_method, location, notes, tags,
			attachments, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.BankID, m.FiscalYear, m.TransactionType, m.Amount, m.TxnDate, m.AccountID,
		m.ToAccountID, m.CategoryID, m.Description, m.PaymentMethod, m.Location, m.Notes, m.Tags,
		m.Attachments, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return 0, mapError(err, "failed to save transaction")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, mapError(err, "failed to read new transaction id")
	}
	return id, nil
}

// FindTransactionByID retrieves a transaction of the scope by its ID.
func (r *TransactionRepository) FindTransactionByID(ctx context.Context, scope domain.Scope, transactionID int64) (*domain.Transaction, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	txn, err := scanTransaction(q.QueryRowContext(ctx,
		transactionSelect+` WHERE t.transaction_id = ? AND t.bank_id = ? AND t.fiscal_year = ?`,
		transactionID, scope.BankID, scope.Year,
	))
	if err != nil {
		return nil, mapError(err, "failed to find transaction %d in %s", transactionID, scope)
	}
	return &txn, nil
}

// ListTransactions returns a page of transactions, newest first.
func (r *TransactionRepository) ListTransactions(ctx context.Context, scope domain.Scope, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	var (
		conds = []string{"t.bank_id = ?", "t.fiscal_year = ?"}
		args  = []any{scope.BankID, scope.Year}
	)
	if filter.From != nil {
		conds = append(conds, "t.txn_date >= ?")
		args = append(args, mapping.FormatDate(*filter.From))
	}
	if filter.To != nil {
		conds = append(conds, "t.txn_date <= ?")
		args = append(args, mapping.FormatDate(*filter.To))
	}
	if filter.AccountID != nil {
		conds = append(conds, "(t.account_id = ? OR t.to_account_id = ?)")
		args = append(args, *filter.AccountID, *filter.AccountID)
	}
	if filter.CategoryID != nil {
		conds = append(conds, "t.category_id = ?")
		args = append(args, *filter.CategoryID)
	}
	if filter.Type != nil {
		conds = append(conds, "t.txn_type = ?")
		args = append(args, string(*filter.Type))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + escapeLike(s) + "%"
		conds = append(conds, `(t.description LIKE ? ESCAPE '\' OR t.notes LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		date, id, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
		d := mapping.FormatDate(date)
		conds = append(conds, "(t.txn_date < ? OR (t.txn_date = ? AND t.transaction_id < ?))")
		args = append(args, d, d, id)
	}

	query := transactionSelect + " WHERE " + strings.Join(conds, " AND ") +
		" ORDER BY t.txn_date DESC, t.transaction_id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit+1)
	}

	txns, err := r.queryTransactions(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if filter.Limit > 0 && len(txns) > filter.Limit {
		txns = txns[:filter.Limit]
		last := txns[len(txns)-1]
		token := pagination.EncodeToken(last.Date, last.TransactionID)
		next = &token
	}
	return txns, next, nil
}

// ListTransactionsForReplay returns all transactions of the scope, oldest first.
func (r *TransactionRepository) ListTransactionsForReplay(ctx context.Context, scope domain.Scope) ([]domain.Transaction, error) {
	return r.queryTransactions(ctx,
		transactionSelect+` WHERE t.bank_id = ? AND t.fiscal_year = ? ORDER BY t.txn_date, t.transaction_id`,
		scope.BankID, scope.Year,
	)
}

// UpdateTransaction overwrites every editable field of a transaction.
func (r *TransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	q, err := r.conn(ctx)
	if err != nil {
		return err
	}
	m, err := mapping.ToModelTransaction(txn)
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	res, err := q.ExecContext(ctx, `
		UPDATE transactions SET txn_type = ?, amount = ?, txn_date = ?, account_id = ?,
			to_account_id = ?, category_id = ?, description = ?, payment_method = ?,
			location = ?, notes = ?, tags = ?, attachments = ?, updated_at = ?
		WHERE transaction_id = ? AND bank_id = ? AND fiscal_year = ?`,
		m.TransactionType, m.Amount, m.TxnDate, m.AccountID,
		m.ToAccountID, m.CategoryID, m.Description, m.PaymentMethod,
		m.Location, m.Notes, m.Tags, m.Attachments, m.UpdatedAt,
		m.TransactionID, m.BankID, m.FiscalYear,
	)
	if err != nil {
		return mapError(err, "failed to update transaction %d", txn.TransactionID)
	}
	return requireAffected(res, "transaction %d", txn.TransactionID)
}

// DeleteTransaction removes a transaction of the scope.
func (r *TransactionRepository) DeleteTransaction(ctx context.Context, scope domain.Scope, transactionID int64) error {
	q, err := r.conn(ctx)
	if err != nil {
		return err
	}
	res, err := q.ExecContext(ctx,
		`DELETE FROM transactions WHERE transaction_id = ? AND bank_id = ? AND fiscal_year = ?`,
		transactionID, scope.BankID, scope.Year,
	)
	if err != nil {
		return mapError(err, "failed to delete transaction %d", transactionID)
	}
	return requireAffected(res, "transaction %d", transactionID)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
