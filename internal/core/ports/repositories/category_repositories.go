package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
)

// CategoryReader defines read operations for categories
type CategoryReader interface {
	// FindCategoryByID retrieves a category of the scope, or apperrors.ErrNotFound.
	FindCategoryByID(ctx context.Context, scope domain.Scope, categoryID int64) (*domain.Category, error)

	// FindCategoryByName matches name case-insensitively. When duplicates exist
	// the lowest id wins. Returns apperrors.ErrNotFound when nothing matches.
	FindCategoryByName(ctx context.Context, scope domain.Scope, name string, categoryType domain.CategoryType) (*domain.Category, error)

	// ListCategories returns categories ordered by type, name and id. A nil
	// categoryType lists both types.
	ListCategories(ctx context.Context, scope domain.Scope, categoryType *domain.CategoryType) ([]domain.Category, error)

	// CountCategoryReferences counts transactions using the category.
	CountCategoryReferences(ctx context.Context, categoryID int64) (int, error)
}

// CategoryWriter defines write operations for categories
type CategoryWriter interface {
	SaveCategory(ctx context.Context, category domain.Category) (int64, error)
	UpdateCategory(ctx context.Context, category domain.Category) error
	DeleteCategory(ctx context.Context, scope domain.Scope, categoryID int64) error

	// ReassignCategory points transactions and child categories of fromID at
	// toID. It returns the number of transactions moved.
	ReassignCategory(ctx context.Context, fromID, toID int64, now time.Time) (int64, error)
}

// CategoryRepositoryFacade combines all category-related repository interfaces
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
