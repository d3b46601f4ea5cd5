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
)

// CategoryRepository persists categories of a scope.
type CategoryRepository struct {
	BaseRepository
}

func newCategoryRepository(store *Store) *CategoryRepository {
	return &CategoryRepository{BaseRepository{store: store}}
}

var _ portsrepo.CategoryRepositoryFacade = (*CategoryRepository)(nil)

const categoryColumns = `category_id, bank_id, fiscal_year, name, category_type, parent_category_id,
	color_code, icon, is_default, created_at, updated_at`

func scanCategory(row interface{ Scan(...any) error }) (domain.Category, error) {
	var m models.Category
	err := row.Scan(
		&m.CategoryID, &m.BankID, &m.FiscalYear, &m.Name, &m.CategoryType, &m.ParentCategoryID,
		&m.ColorCode, &m.Icon, &m.IsDefault, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return domain.Category{}, err
	}
	return mapping.ToDomainCategory(m)
}

// SaveCategory inserts a category and returns its id.
func (r *CategoryRepository) SaveCategory(ctx context.Context, category domain.Category) (int64, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}
	m := mapping.ToModelCategory(category)
	res, err := q.ExecContext(ctx, `
		INSERT INTO categories (bank_id, fiscal_year, name, category_type, parent_category_id,
			color_code, icon, is_default, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.BankID, m.FiscalYear, m.Name, m.CategoryType, m.ParentCategoryID,
		m.ColorCode, m.Icon, m.IsDefault, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return 0, mapError(err, "failed to save category %q", m.Name)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, mapError(err, "failed to read new category id")
	}
	return id, nil
}

// FindCategoryByID retrieves a category of the scope by its ID.
func (r *CategoryRepository) FindCategoryByID(ctx context.Context, scope domain.Scope, categoryID int64) (*domain.Category, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	category, err := scanCategory(q.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE category_id = ? AND bank_id = ? AND fiscal_year = ?`,
		categoryID, scope.BankID, scope.Year,
	))
	if err != nil {
		return nil, mapError(err, "failed to find category %d in %s", categoryID, scope)
	}
	return &category, nil
}

// FindCategoryByName matches names the way domain.NormalizeName does. The
// comparison runs in Go because sqlite lower() only folds ASCII.
func (r *CategoryRepository) FindCategoryByName(ctx context.Context, scope domain.Scope, name string, categoryType domain.CategoryType) (*domain.Category, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE bank_id = ? AND fiscal_year = ? AND category_type = ?
		ORDER BY category_id`,
		scope.BankID, scope.Year, string(categoryType),
	)
	if err != nil {
		return nil, mapError(err, "failed to find category %q in %s", name, scope)
	}
	defer rows.Close()

	want := domain.NormalizeName(name)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, mapError(err, "failed to scan category")
		}
		if domain.NormalizeName(category.Name) == want {
			return &category, nil
		}
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "failed to iterate categories")
	}
	return nil, fmt.Errorf("%w: %s category %q in %s", apperrors.ErrNotFound, categoryType, name, scope)
}

// ListCategories returns the categories of the scope ordered by type, name and id.
func (r *CategoryRepository) ListCategories(ctx context.Context, scope domain.Scope, categoryType *domain.CategoryType) ([]domain.Category, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE bank_id = ? AND fiscal_year = ?`
	args := []any{scope.BankID, scope.Year}
	if categoryType != nil {
		query += ` AND category_type = ?`
		args = append(args, string(*categoryType))
	}
	query += ` ORDER BY category_type, name COLLATE NOCASE, category_id`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "failed to list categories of %s", scope)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, mapError(err, "failed to scan category")
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "failed to iterate categories")
	}
	return categories, nil
}

// CountCategoryReferences counts transactions that use the category.
func (r *CategoryRepository) CountCategoryReferences(ctx context.Context, categoryID int64) (int, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}
	var n int
	if err := q.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM transactions WHERE category_id = ?`, categoryID,
	).Scan(&n); err != nil {
		return 0, mapError(err, "failed to count references of category %d", categoryID)
	}
	return n, nil
}

// UpdateCategory updates the editable fields of a category.
func (r *CategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	q, err := r.conn(ctx)
	if err != nil {
		return err
	}
	m := mapping.ToModelCategory(category)
	res, err := q.ExecContext(ctx, `
		UPDATE categories SET name = ?, category_type = ?, parent_category_id = ?,
			color_code = ?, icon = ?, is_default = ?, updated_at = ?
		WHERE category_id = ? AND bank_id = ? AND fiscal_year = ?`,
		m.Name, m.CategoryType, m.ParentCategoryID,
		m.ColorCode, m.Icon, m.IsDefault, m.UpdatedAt,
		m.CategoryID, m.BankID, m.FiscalYear,
	)
	if err != nil {
		return mapError(err, "failed to update category %d", category.CategoryID)
	}
	return requireAffected(res, "category %d", category.CategoryID)
}

// DeleteCategory removes a category of the scope.
func (r *CategoryRepository) DeleteCategory(ctx context.Context, scope domain.Scope, categoryID int64) error {
	q, err := r.conn(ctx)
	if err != nil {
		return err
	}
	res, err := q.ExecContext(ctx,
		`DELETE FROM categories WHERE category_id = ? AND bank_id = ? AND fiscal_year = ?`,
		categoryID, scope.BankID, scope.Year,
	)
	if err != nil {
		return mapError(err, "failed to delete category %d", categoryID)
	}
	return requireAffected(res, "category %d", categoryID)
}

// ReassignCategory moves transactions and child categories from one category to another.
func (r *CategoryRepository) ReassignCategory(ctx context.Context, fromID, toID int64, now time.Time) (int64, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}
	ts := mapping.FormatTimestamp(now)

	res, err := q.ExecContext(ctx,
		`UPDATE transactions SET category_id = ?, updated_at = ? WHERE category_id = ?`,
		toID, ts, fromID,
	)
	if err != nil {
		return 0, mapError(err, "failed to move transactions from category %d", fromID)
	}
	moved, err := res.RowsAffected()
	if err != nil {
		return 0, mapError(err, "failed to move transactions from category %d", fromID)
	}

	if _, err := q.ExecContext(ctx,
		`UPDATE categories SET parent_category_id = ?, updated_at = ? WHERE parent_category_id = ? AND category_id <> ?`,
		toID, ts, fromID, toID,
	); err != nil {
		return 0, mapError(err, "failed to move child categories of %d", fromID)
	}
	return moved, nil
}
