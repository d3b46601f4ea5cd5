package services

import (
	"context"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
	"github.com/SscSPs/ledgerbook/internal/dto"
)

// CategoryReaderSvc defines read operations for categories
type CategoryReaderSvc interface {
	GetCategoryByID(ctx context.Context, scope domain.Scope, categoryID int64) (*domain.Category, error)

	// ListCategories lists categories of the scope, optionally of one type.
	ListCategories(ctx context.Context, scope domain.Scope, categoryType *domain.CategoryType) ([]domain.Category, error)
}

// CategoryWriterSvc defines write operations for categories
type CategoryWriterSvc interface {
	CreateCategory(ctx context.Context, scope domain.Scope, req dto.CreateCategoryRequest) (*domain.Category, error)
	UpdateCategory(ctx context.Context, scope domain.Scope, categoryID int64, req dto.UpdateCategoryRequest) (*domain.Category, error)
	DeleteCategory(ctx context.Context, scope domain.Scope, categoryID int64) error

	// CleanupDuplicateCategories merges categories sharing a (name, type) key
	// into the lowest id. Running it twice changes nothing the second time.
	CleanupDuplicateCategories(ctx context.Context, scope domain.Scope) (*domain.CleanupResult, error)
}

// CategorySvcFacade combines all category-related service interfaces
type CategorySvcFacade interface {
	CategoryReaderSvc
	CategoryWriterSvc
}
